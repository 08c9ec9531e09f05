package service

import (
	"errors"
	"fmt"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountService owns Account rows and their balances. Balances are only
// moved via adjustBalance inside the same database transaction as the ledger
// write that causes the movement.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// AccountForm is the creation contract: entity fields minus generated ones.
type AccountForm struct {
	Name           string
	Type           string
	InitialBalance decimal.Decimal
	Currency       string
	Color          string
	Icon           string
	IsDefault      bool
}

// AccountUpdate carries partial edits. Balance, when set, overwrites the
// stored balance directly — the explicit manual-adjustment escape hatch.
type AccountUpdate struct {
	Name      *string
	Type      *string
	Currency  *string
	Color     *string
	Icon      *string
	IsDefault *bool
	Balance   *decimal.Decimal
}

// List returns all accounts of the user in creation order.
func (s *AccountService) List(userID string) ([]models.Account, error) {
	accounts := make([]models.Account, 0)
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Get returns one account scoped to the user.
func (s *AccountService) Get(userID, id string) (*models.Account, error) {
	var acc models.Account
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}

// Create makes a new account with balance = initial balance. When the form
// marks it default, every other account of the user loses the flag in the
// same database transaction so exclusivity cannot be observed broken.
func (s *AccountService) Create(userID string, form AccountForm) (*models.Account, error) {
	if !models.ValidAccountType(form.Type) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, form.Type)
	}
	acc := models.Account{
		UserID:    userID,
		Name:      form.Name,
		Type:      form.Type,
		Balance:   form.InitialBalance,
		Currency:  form.Currency,
		Color:     form.Color,
		Icon:      form.Icon,
		IsDefault: form.IsDefault,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if form.IsDefault {
			if err := clearDefaultFlag(tx, userID); err != nil {
				return err
			}
		}
		return tx.Create(&acc).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &acc, nil
}

// Update applies a partial edit. Setting IsDefault clears the flag on the
// other accounts; setting Balance overwrites the ledger-derived value.
func (s *AccountService) Update(userID, id string, upd AccountUpdate) (*models.Account, error) {
	if upd.Type != nil && !models.ValidAccountType(*upd.Type) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, *upd.Type)
	}
	var acc models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&acc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		if upd.Name != nil {
			acc.Name = *upd.Name
		}
		if upd.Type != nil {
			acc.Type = *upd.Type
		}
		if upd.Currency != nil {
			acc.Currency = *upd.Currency
		}
		if upd.Color != nil {
			acc.Color = *upd.Color
		}
		if upd.Icon != nil {
			acc.Icon = *upd.Icon
		}
		if upd.Balance != nil {
			acc.Balance = *upd.Balance
		}
		if upd.IsDefault != nil {
			if *upd.IsDefault && !acc.IsDefault {
				if err := clearDefaultFlag(tx, userID); err != nil {
					return err
				}
			}
			acc.IsDefault = *upd.IsDefault
		}
		return tx.Save(&acc).Error
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return &acc, nil
}

// Delete removes the account and cascades to every transaction referencing it
// from either side. Effects on surviving accounts are reversed so their
// balances stay consistent with the remaining transaction history.
func (s *AccountService) Delete(userID, id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var acc models.Account
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&acc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		var txs []models.Transaction
		if err := tx.Where("user_id = ? AND (account_id = ? OR to_account_id = ?)", userID, id, id).
			Find(&txs).Error; err != nil {
			return err
		}
		for i := range txs {
			if err := reverseEffectExcept(tx, &txs[i], id); err != nil {
				return err
			}
			if err := tx.Delete(&txs[i]).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&acc).Error
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// EnsureDefault returns an account to post against when none was specified:
// the default account if one exists, otherwise the first account, otherwise a
// freshly created zero-balance cash account. Idempotent.
func (s *AccountService) EnsureDefault(userID string) (*models.Account, error) {
	acc, err := ensureDefaultAccount(s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure default account: %w", err)
	}
	return acc, nil
}

func ensureDefaultAccount(tx *gorm.DB, userID string) (*models.Account, error) {
	var acc models.Account
	err := tx.Where("user_id = ? AND is_default = ?", userID, true).First(&acc).Error
	if err == nil {
		return &acc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	err = tx.Where("user_id = ?", userID).Order("created_at ASC, id ASC").First(&acc).Error
	if err == nil {
		return &acc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	acc = models.Account{
		UserID:    userID,
		Name:      "Cash",
		Type:      models.AccountCash,
		Balance:   decimal.Zero,
		Currency:  "USD",
		IsDefault: true,
	}
	if err := tx.Create(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func clearDefaultFlag(tx *gorm.DB, userID string) error {
	return tx.Model(&models.Account{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

// adjustBalance moves an account balance by delta. Called only from ledger
// mutations, always inside the surrounding database transaction.
func adjustBalance(tx *gorm.DB, userID, accountID string, delta decimal.Decimal) error {
	var acc models.Account
	if err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	acc.Balance = acc.Balance.Add(delta)
	return tx.Model(&acc).Update("balance", acc.Balance).Error
}
