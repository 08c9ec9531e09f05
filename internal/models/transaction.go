package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types.
const (
	TxIncome   = "income"
	TxExpense  = "expense"
	TxTransfer = "transfer"
)

// Transaction is a single financial event. Amount is always a positive
// magnitude; the direction comes from Type. Transfers carry a destination
// account in ToAccountID.
type Transaction struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	UserID        string          `gorm:"index;size:36;not null" json:"user_id"`
	AccountID     string          `gorm:"index;size:36;not null" json:"account_id"`
	ToAccountID   *string         `gorm:"index;size:36" json:"to_account_id,omitempty"`
	Type          string          `gorm:"size:16;index;not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Category      string          `gorm:"size:32;index;not null" json:"category"`
	Subcategory   string          `gorm:"size:32" json:"subcategory,omitempty"`
	Description   string          `gorm:"size:255" json:"description"`
	Date          time.Time       `gorm:"index;not null" json:"date"`
	PaymentMethod string          `gorm:"size:32" json:"payment_method"`
	Tags          []string        `gorm:"serializer:json" json:"tags,omitempty"`
	Merchant      string          `gorm:"size:64" json:"merchant,omitempty"`
	Location      string          `gorm:"size:128" json:"location,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	IsRecurring   bool            `json:"is_recurring"`
	Recurrence    string          `gorm:"size:16" json:"recurrence,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ValidTransactionType reports whether t is income, expense or transfer.
func ValidTransactionType(t string) bool {
	return t == TxIncome || t == TxExpense || t == TxTransfer
}
