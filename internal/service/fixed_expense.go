package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FixedExpenseService mirrors SubscriptionService for recurring obligations.
type FixedExpenseService struct {
	db *gorm.DB
}

func NewFixedExpenseService(db *gorm.DB) *FixedExpenseService {
	return &FixedExpenseService{db: db}
}

type FixedExpenseForm struct {
	Name        string
	Amount      decimal.Decimal
	Frequency   string
	NextDueDate time.Time
	Category    string
	AutoPay     bool
	IsActive    bool
	Notes       string
}

func (s *FixedExpenseService) List(userID string) ([]models.FixedExpense, error) {
	items := make([]models.FixedExpense, 0)
	err := s.db.Where("user_id = ?", userID).Order("next_due_date ASC, id ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list fixed expenses: %w", err)
	}
	now := time.Now()
	for i := range items {
		fe := &items[i]
		next := NextDueDate(fe.NextDueDate, fe.Frequency, now)
		if !next.Equal(fe.NextDueDate) {
			fe.NextDueDate = next
			if err := s.db.Model(fe).Update("next_due_date", next).Error; err != nil {
				return nil, fmt.Errorf("roll due date: %w", err)
			}
		}
	}
	return items, nil
}

func (s *FixedExpenseService) Create(userID string, form FixedExpenseForm) (*models.FixedExpense, error) {
	if !models.ValidCycle(form.Frequency) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, form.Frequency)
	}
	if !form.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	now := time.Now()
	due := form.NextDueDate
	if due.IsZero() {
		due = now
	}
	fe := models.FixedExpense{
		UserID:      userID,
		Name:        form.Name,
		Amount:      form.Amount,
		Frequency:   form.Frequency,
		NextDueDate: NextDueDate(due, form.Frequency, now),
		Category:    form.Category,
		AutoPay:     form.AutoPay,
		IsActive:    form.IsActive,
		Notes:       form.Notes,
	}
	if err := s.db.Create(&fe).Error; err != nil {
		return nil, fmt.Errorf("create fixed expense: %w", err)
	}
	return &fe, nil
}

func (s *FixedExpenseService) Update(userID, id string, form FixedExpenseForm) (*models.FixedExpense, error) {
	if !models.ValidCycle(form.Frequency) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, form.Frequency)
	}
	if !form.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var fe models.FixedExpense
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&fe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get fixed expense: %w", err)
	}
	fe.Name = form.Name
	fe.Amount = form.Amount
	fe.Frequency = form.Frequency
	if !form.NextDueDate.IsZero() {
		fe.NextDueDate = form.NextDueDate
	}
	fe.NextDueDate = NextDueDate(fe.NextDueDate, fe.Frequency, time.Now())
	fe.Category = form.Category
	fe.AutoPay = form.AutoPay
	fe.IsActive = form.IsActive
	fe.Notes = form.Notes
	if err := s.db.Save(&fe).Error; err != nil {
		return nil, fmt.Errorf("update fixed expense: %w", err)
	}
	return &fe, nil
}

func (s *FixedExpenseService) Delete(userID, id string) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.FixedExpense{})
	if res.Error != nil {
		return fmt.Errorf("delete fixed expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Upcoming lists active fixed expenses due within the next `days` days.
func (s *FixedExpenseService) Upcoming(userID string, days int) ([]models.FixedExpense, error) {
	items, err := s.List(userID)
	if err != nil {
		return nil, err
	}
	cutoff := dateOnly(time.Now()).AddDate(0, 0, days)
	out := make([]models.FixedExpense, 0)
	for _, fe := range items {
		if fe.IsActive && !fe.NextDueDate.After(cutoff) {
			out = append(out, fe)
		}
	}
	return out, nil
}

// MonthlyTotal sums the per-month cost of all active fixed expenses.
func (s *FixedExpenseService) MonthlyTotal(userID string) (decimal.Decimal, error) {
	items := make([]models.FixedExpense, 0)
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&items).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("monthly total: %w", err)
	}
	total := decimal.Zero
	for _, fe := range items {
		total = total.Add(MonthlyCost(fe.Amount, fe.Frequency))
	}
	return total, nil
}
