package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionService records financial events and keeps account balances
// consistent with them. Every balance effect is applied in the same database
// transaction as the record write: a failed mutation rolls back both sides.
type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// TransactionForm mirrors the entity minus generated fields.
type TransactionForm struct {
	AccountID     string
	ToAccountID   string
	Type          string
	Amount        decimal.Decimal
	Category      string
	Subcategory   string
	Description   string
	Date          time.Time
	PaymentMethod string
	Tags          []string
	Merchant      string
	Location      string
	Notes         string
	IsRecurring   bool
	Recurrence    string
}

// TransactionFilter narrows List results. Zero values mean "no constraint".
type TransactionFilter struct {
	Type           string
	AccountID      string
	Start          *time.Time
	End            *time.Time
	Categories     []string
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	PaymentMethods []string
	Search         string
	Page           int
	PageSize       int
}

// Summary aggregates income and expense magnitudes over a window. Transfers
// are excluded from both totals; ByCategory breaks down expenses only.
type Summary struct {
	TotalIncome   decimal.Decimal            `json:"total_income"`
	TotalExpenses decimal.Decimal            `json:"total_expenses"`
	ByCategory    map[string]decimal.Decimal `json:"by_category"`
}

// AccountTotals is the per-account slice of a summary.
type AccountTotals struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

func (s *TransactionService) validateForm(form *TransactionForm) error {
	if !models.ValidTransactionType(form.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidType, form.Type)
	}
	if !form.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if form.Date.IsZero() {
		form.Date = time.Now()
	}
	// compare calendar dates so "later today" still passes
	if form.Date.Format("2006-01-02") > time.Now().Format("2006-01-02") {
		return ErrDateInFuture
	}
	if form.Type == models.TxTransfer {
		if form.ToAccountID == "" {
			return ErrMissingDestination
		}
		if form.ToAccountID == form.AccountID {
			return ErrSameAccount
		}
	}
	return nil
}

// resolveAccounts checks referential integrity inside tx: the source account
// must exist for the user (falling back to the default account when none was
// given) and a transfer destination must exist and differ from the source.
func (s *TransactionService) resolveAccounts(tx *gorm.DB, userID string, form *TransactionForm) error {
	if form.AccountID == "" {
		acc, err := ensureDefaultAccount(tx, userID)
		if err != nil {
			return err
		}
		form.AccountID = acc.ID
	} else {
		var acc models.Account
		if err := tx.Where("id = ? AND user_id = ?", form.AccountID, userID).First(&acc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
	}
	if form.Type == models.TxTransfer {
		if form.ToAccountID == form.AccountID {
			return ErrSameAccount
		}
		var dst models.Account
		if err := tx.Where("id = ? AND user_id = ?", form.ToAccountID, userID).First(&dst).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
	}
	return nil
}

// Create persists the record and applies its balance effect atomically.
func (s *TransactionService) Create(userID string, form TransactionForm) (*models.Transaction, error) {
	if err := s.validateForm(&form); err != nil {
		return nil, err
	}
	var t models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.resolveAccounts(tx, userID, &form); err != nil {
			return err
		}
		t = models.Transaction{
			UserID:        userID,
			AccountID:     form.AccountID,
			Type:          form.Type,
			Amount:        form.Amount,
			Category:      form.Category,
			Subcategory:   form.Subcategory,
			Description:   form.Description,
			Date:          form.Date,
			PaymentMethod: form.PaymentMethod,
			Tags:          form.Tags,
			Merchant:      form.Merchant,
			Location:      form.Location,
			Notes:         form.Notes,
			IsRecurring:   form.IsRecurring,
			Recurrence:    form.Recurrence,
		}
		if form.Type == models.TxTransfer {
			to := form.ToAccountID
			t.ToAccountID = &to
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		return applyEffect(tx, &t, false)
	})
	if err != nil {
		return nil, serviceErr("create transaction", err)
	}
	return &t, nil
}

// Update replaces the record's fields and rebalances: the old effect is
// reversed, the new one applied, all in one database transaction. Updating
// with identical fields nets out to a balance no-op.
func (s *TransactionService) Update(userID, id string, form TransactionForm) (*models.Transaction, error) {
	if err := s.validateForm(&form); err != nil {
		return nil, err
	}
	var t models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.resolveAccounts(tx, userID, &form); err != nil {
			return err
		}
		if err := applyEffect(tx, &t, true); err != nil {
			return err
		}
		t.AccountID = form.AccountID
		t.ToAccountID = nil
		if form.Type == models.TxTransfer {
			to := form.ToAccountID
			t.ToAccountID = &to
		}
		t.Type = form.Type
		t.Amount = form.Amount
		t.Category = form.Category
		t.Subcategory = form.Subcategory
		t.Description = form.Description
		t.Date = form.Date
		t.PaymentMethod = form.PaymentMethod
		t.Tags = form.Tags
		t.Merchant = form.Merchant
		t.Location = form.Location
		t.Notes = form.Notes
		t.IsRecurring = form.IsRecurring
		t.Recurrence = form.Recurrence
		if err := tx.Save(&t).Error; err != nil {
			return err
		}
		return applyEffect(tx, &t, false)
	})
	if err != nil {
		return nil, serviceErr("update transaction", err)
	}
	return &t, nil
}

// Delete reverses the balance effect and removes the record atomically.
func (s *TransactionService) Delete(userID, id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := applyEffect(tx, &t, true); err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
	return serviceErr("delete transaction", err)
}

// applyEffect moves the balances a transaction implies. reverse flips the
// direction, used before re-applying on update and before delete.
func applyEffect(tx *gorm.DB, t *models.Transaction, reverse bool) error {
	return applyEffectExcept(tx, t, reverse, "")
}

// applyEffectExcept skips one account, used while cascading an account
// delete where the skipped account is being removed anyway.
func applyEffectExcept(tx *gorm.DB, t *models.Transaction, reverse bool, skipAccountID string) error {
	amount := t.Amount
	if reverse {
		amount = amount.Neg()
	}
	switch t.Type {
	case models.TxIncome:
		if t.AccountID == skipAccountID {
			return nil
		}
		return adjustBalance(tx, t.UserID, t.AccountID, amount)
	case models.TxExpense:
		if t.AccountID == skipAccountID {
			return nil
		}
		return adjustBalance(tx, t.UserID, t.AccountID, amount.Neg())
	case models.TxTransfer:
		if t.ToAccountID == nil {
			return ErrMissingDestination
		}
		if t.AccountID != skipAccountID {
			if err := adjustBalance(tx, t.UserID, t.AccountID, amount.Neg()); err != nil {
				return err
			}
		}
		if *t.ToAccountID != skipAccountID {
			return adjustBalance(tx, t.UserID, *t.ToAccountID, amount)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
}

func reverseEffectExcept(tx *gorm.DB, t *models.Transaction, skipAccountID string) error {
	return applyEffectExcept(tx, t, true, skipAccountID)
}

// List returns transactions matching the filter, newest first, with the
// total match count for pagination.
func (s *TransactionService) List(userID string, f TransactionFilter) ([]models.Transaction, int64, error) {
	q := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.AccountID != "" {
		q = q.Where("(account_id = ? OR to_account_id = ?)", f.AccountID, f.AccountID)
	}
	if f.Start != nil {
		q = q.Where("date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("date < ?", *f.End)
	}
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if len(f.PaymentMethods) > 0 {
		q = q.Where("payment_method IN ?", f.PaymentMethods)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(f.Search)) + "%"
		q = q.Where(
			"(LOWER(description) LIKE ? OR LOWER(category) LIKE ? OR LOWER(merchant) LIKE ? OR LOWER(notes) LIKE ?)",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	size := f.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}

	items := make([]models.Transaction, 0)
	err := q.Session(&gorm.Session{}).
		Order("date DESC, created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return items, total, nil
}

// SummaryWindow aggregates over [start, end). An empty accountID aggregates
// across all accounts.
func (s *TransactionService) SummaryWindow(userID string, start, end time.Time, accountID string) (*Summary, error) {
	q := s.db.Where("user_id = ? AND date >= ? AND date < ? AND type <> ?",
		userID, start, end, models.TxTransfer)
	if accountID != "" {
		q = q.Where("account_id = ?", accountID)
	}
	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}
	sum := &Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		ByCategory:    make(map[string]decimal.Decimal),
	}
	for i := range txs {
		t := &txs[i]
		switch t.Type {
		case models.TxIncome:
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
		case models.TxExpense:
			sum.TotalExpenses = sum.TotalExpenses.Add(t.Amount)
			sum.ByCategory[t.Category] = sum.ByCategory[t.Category].Add(t.Amount)
		}
	}
	return sum, nil
}

// AccountsSummary groups income/expense totals by source account.
func (s *TransactionService) AccountsSummary(userID string, start, end time.Time) (map[string]AccountTotals, error) {
	var txs []models.Transaction
	err := s.db.Where("user_id = ? AND date >= ? AND date < ? AND type <> ?",
		userID, start, end, models.TxTransfer).Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("accounts summary query: %w", err)
	}
	out := make(map[string]AccountTotals)
	for i := range txs {
		t := &txs[i]
		at := out[t.AccountID]
		switch t.Type {
		case models.TxIncome:
			at.TotalIncome = at.TotalIncome.Add(t.Amount)
		case models.TxExpense:
			at.TotalExpenses = at.TotalExpenses.Add(t.Amount)
		}
		out[t.AccountID] = at
	}
	return out, nil
}

// serviceErr passes sentinels through untouched and wraps everything else.
func serviceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		ErrNotFound, ErrAccountNotFound, ErrInvalidType, ErrInvalidAmount,
		ErrMissingDestination, ErrSameAccount, ErrInsufficientFunds, ErrDateInFuture,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
