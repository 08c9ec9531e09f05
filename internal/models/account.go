package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account types.
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountCash       = "cash"
	AccountCredit     = "credit"
	AccountInvestment = "investment"
	AccountOther      = "other"
)

// Account owns the authoritative balance for "current money".
// Balance is derived-but-stored: it equals the starting balance plus the net
// effect of every transaction referencing the account, and is only moved
// together with a transaction write inside the same database transaction.
type Account struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	UserID    string          `gorm:"index;size:36;not null" json:"user_id"`
	Name      string          `gorm:"size:64;not null" json:"name"`
	Type      string          `gorm:"size:16;index;not null" json:"type"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance"`
	Currency  string          `gorm:"size:8;default:USD" json:"currency"`
	Color     string          `gorm:"size:16" json:"color"`
	Icon      string          `gorm:"size:32" json:"icon"`
	IsDefault bool            `gorm:"index;not null;default:false" json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t string) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCash, AccountCredit, AccountInvestment, AccountOther:
		return true
	}
	return false
}
