package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DashboardSettings is per-user UI preference state. Widget lists and the
// size map are stored as JSON columns; missing fields are filled with
// explicit defaults on load (see service.DefaultDashboardSettings).
type DashboardSettings struct {
	ID                   string            `gorm:"primaryKey;size:36" json:"id"`
	UserID               string            `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	VisibleWidgets       []string          `gorm:"serializer:json" json:"visible_widgets"`
	WidgetOrder          []string          `gorm:"serializer:json" json:"widget_order"`
	WidgetSizes          map[string]string `gorm:"serializer:json" json:"widget_sizes"`
	DefaultAccountFilter string            `gorm:"size:36" json:"default_account_filter"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

func (d *DashboardSettings) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
