package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Billing cycles shared by subscriptions and fixed expenses.
const (
	CycleWeekly    = "weekly"
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
)

// Subscription is a recurring paid service. NextDueDate is rolled forward by
// whole billing cycles so it is never in the past after a store read.
type Subscription struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	UserID       string          `gorm:"index;size:36;not null" json:"user_id"`
	Name         string          `gorm:"size:64;not null" json:"name"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	BillingCycle string          `gorm:"size:16;not null;default:monthly" json:"billing_cycle"`
	NextDueDate  time.Time       `gorm:"index;not null" json:"next_due_date"`
	Category     string          `gorm:"size:32" json:"category"`
	Provider     string          `gorm:"size:64" json:"provider"`
	Website      string          `gorm:"size:128" json:"website,omitempty"`
	IsActive     bool            `gorm:"index;not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ValidCycle reports whether c is a known billing cycle.
func ValidCycle(c string) bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}
