package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SavingsGoal tracks progress towards a target amount. CurrentAmount always
// equals the sum of the goal's contributions; both move together inside one
// database transaction.
type SavingsGoal struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	UserID        string          `gorm:"index;size:36;not null" json:"user_id"`
	Name          string          `gorm:"size:64;not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Category      string          `gorm:"size:32" json:"category"`
	Icon          string          `gorm:"size:32" json:"icon"`
	Color         string          `gorm:"size:16" json:"color"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Contributions []Contribution `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"contributions,omitempty"`
}

func (g *SavingsGoal) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Contribution is a signed movement on a savings goal; withdrawals are
// recorded as negative amounts.
type Contribution struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	GoalID    string          `gorm:"index;size:36;not null" json:"goal_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Date      time.Time       `gorm:"not null" json:"date"`
	Note      string          `gorm:"size:255" json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (c *Contribution) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
