package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FixedExpense is a recurring obligation (rent, insurance, loan payment).
// Same rollforward rule as Subscription: NextDueDate never stays in the past.
type FixedExpense struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserID      string          `gorm:"index;size:36;not null" json:"user_id"`
	Name        string          `gorm:"size:64;not null" json:"name"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Frequency   string          `gorm:"size:16;not null;default:monthly" json:"frequency"`
	NextDueDate time.Time       `gorm:"index;not null" json:"next_due_date"`
	Category    string          `gorm:"size:32" json:"category"`
	AutoPay     bool            `json:"auto_pay"`
	IsActive    bool            `gorm:"index;not null;default:true" json:"is_active"`
	Notes       string          `gorm:"size:255" json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (f *FixedExpense) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
