package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetService is CRUD over budgets plus the spent-cache refresh. It never
// consults the ledger implicitly; callers trigger RefreshSpent when they want
// the cached figures brought up to date.
type BudgetService struct {
	db *gorm.DB
	tx *TransactionService
}

func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{db: db, tx: NewTransactionService(db)}
}

type BudgetForm struct {
	Name           string
	Category       string
	Amount         decimal.Decimal
	Period         string
	StartDate      time.Time
	EndDate        *time.Time
	AlertThreshold int
}

func (s *BudgetService) List(userID string) ([]models.Budget, error) {
	budgets := make([]models.Budget, 0)
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *BudgetService) Create(userID string, form BudgetForm) (*models.Budget, error) {
	if !models.ValidBudgetPeriod(form.Period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, form.Period)
	}
	if !form.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if form.StartDate.IsZero() {
		form.StartDate = time.Now()
	}
	b := models.Budget{
		UserID:         userID,
		Name:           form.Name,
		Category:       form.Category,
		Amount:         form.Amount,
		Spent:          decimal.Zero,
		Period:         form.Period,
		StartDate:      form.StartDate,
		EndDate:        form.EndDate,
		AlertThreshold: form.AlertThreshold,
	}
	if b.AlertThreshold <= 0 || b.AlertThreshold > 100 {
		b.AlertThreshold = 80
	}
	if err := s.db.Create(&b).Error; err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	return &b, nil
}

func (s *BudgetService) Update(userID, id string, form BudgetForm) (*models.Budget, error) {
	if !models.ValidBudgetPeriod(form.Period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, form.Period)
	}
	if !form.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var b models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	b.Name = form.Name
	b.Category = form.Category
	b.Amount = form.Amount
	b.Period = form.Period
	if !form.StartDate.IsZero() {
		b.StartDate = form.StartDate
	}
	b.EndDate = form.EndDate
	if form.AlertThreshold > 0 && form.AlertThreshold <= 100 {
		b.AlertThreshold = form.AlertThreshold
	}
	if err := s.db.Save(&b).Error; err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return &b, nil
}

func (s *BudgetService) Delete(userID, id string) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
	if res.Error != nil {
		return fmt.Errorf("delete budget: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RefreshSpent recomputes the spent cache of every budget of the user from
// the expense total of its category over the currently active period window.
func (s *BudgetService) RefreshSpent(userID string, now time.Time) ([]models.Budget, error) {
	budgets, err := s.List(userID)
	if err != nil {
		return nil, err
	}
	for i := range budgets {
		b := &budgets[i]
		start, end := periodWindow(b.Period, now)
		sum, err := s.tx.SummaryWindow(userID, start, end, "")
		if err != nil {
			return nil, err
		}
		spent := sum.ByCategory[b.Category]
		if !spent.Equal(b.Spent) {
			b.Spent = spent
			if err := s.db.Model(b).Update("spent", spent).Error; err != nil {
				return nil, fmt.Errorf("refresh budget spent: %w", err)
			}
		}
	}
	return budgets, nil
}

// periodWindow returns the [start, end) window containing now for a period.
// Weekly windows start on Monday.
func periodWindow(period string, now time.Time) (time.Time, time.Time) {
	day := dateOnly(now)
	switch period {
	case models.PeriodDaily:
		return day, day.AddDate(0, 0, 1)
	case models.PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	default: // monthly
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, 0)
	}
}
