package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Budget is a per-category spending limit. Spent is a cached value refreshed
// from the ledger by BudgetService.RefreshSpent; the row never consults the
// ledger on its own, so it can lag behind until the next refresh.
type Budget struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	UserID         string          `gorm:"index;size:36;not null" json:"user_id"`
	Name           string          `gorm:"size:64;not null" json:"name"`
	Category       string          `gorm:"size:32;index;not null" json:"category"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Spent          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"spent"`
	Period         string          `gorm:"size:16;not null;default:monthly" json:"period"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	AlertThreshold int             `gorm:"default:80" json:"alert_threshold"` // percent of Amount
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (b *Budget) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// ValidBudgetPeriod reports whether p is daily, weekly or monthly.
func ValidBudgetPeriod(p string) bool {
	return p == PeriodDaily || p == PeriodWeekly || p == PeriodMonthly
}
