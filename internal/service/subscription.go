package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubscriptionService is CRUD over subscriptions with due-date rollforward:
// stored due dates are normalized past "today" on every create, update and
// list, so a read never reports a date in the past.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

type SubscriptionForm struct {
	Name         string
	Amount       decimal.Decimal
	BillingCycle string
	NextDueDate  time.Time
	Category     string
	Provider     string
	Website      string
	IsActive     bool
}

func (s *SubscriptionService) List(userID string) ([]models.Subscription, error) {
	subs := make([]models.Subscription, 0)
	err := s.db.Where("user_id = ?", userID).Order("next_due_date ASC, id ASC").Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	now := time.Now()
	for i := range subs {
		if err := s.normalize(&subs[i], now); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

// normalize rolls a stale due date forward and persists the new value.
func (s *SubscriptionService) normalize(sub *models.Subscription, now time.Time) error {
	next := NextDueDate(sub.NextDueDate, sub.BillingCycle, now)
	if next.Equal(sub.NextDueDate) {
		return nil
	}
	sub.NextDueDate = next
	if err := s.db.Model(sub).Update("next_due_date", next).Error; err != nil {
		return fmt.Errorf("roll due date: %w", err)
	}
	return nil
}

func (s *SubscriptionService) Create(userID string, form SubscriptionForm) (*models.Subscription, error) {
	if !models.ValidCycle(form.BillingCycle) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, form.BillingCycle)
	}
	if !form.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	now := time.Now()
	due := form.NextDueDate
	if due.IsZero() {
		due = now
	}
	sub := models.Subscription{
		UserID:       userID,
		Name:         form.Name,
		Amount:       form.Amount,
		BillingCycle: form.BillingCycle,
		NextDueDate:  NextDueDate(due, form.BillingCycle, now),
		Category:     form.Category,
		Provider:     form.Provider,
		Website:      form.Website,
		IsActive:     form.IsActive,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return &sub, nil
}

func (s *SubscriptionService) Update(userID, id string, form SubscriptionForm) (*models.Subscription, error) {
	if !models.ValidCycle(form.BillingCycle) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, form.BillingCycle)
	}
	if !form.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var sub models.Subscription
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	sub.Name = form.Name
	sub.Amount = form.Amount
	sub.BillingCycle = form.BillingCycle
	if !form.NextDueDate.IsZero() {
		sub.NextDueDate = form.NextDueDate
	}
	sub.NextDueDate = NextDueDate(sub.NextDueDate, sub.BillingCycle, time.Now())
	sub.Category = form.Category
	sub.Provider = form.Provider
	sub.Website = form.Website
	sub.IsActive = form.IsActive
	if err := s.db.Save(&sub).Error; err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	return &sub, nil
}

func (s *SubscriptionService) Delete(userID, id string) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Upcoming lists active subscriptions due within the next `days` days.
func (s *SubscriptionService) Upcoming(userID string, days int) ([]models.Subscription, error) {
	subs, err := s.List(userID)
	if err != nil {
		return nil, err
	}
	cutoff := dateOnly(time.Now()).AddDate(0, 0, days)
	out := make([]models.Subscription, 0)
	for _, sub := range subs {
		if sub.IsActive && !sub.NextDueDate.After(cutoff) {
			out = append(out, sub)
		}
	}
	return out, nil
}

// MonthlyTotal sums the per-month cost of all active subscriptions.
func (s *SubscriptionService) MonthlyTotal(userID string) (decimal.Decimal, error) {
	subs := make([]models.Subscription, 0)
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&subs).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("monthly total: %w", err)
	}
	total := decimal.Zero
	for _, sub := range subs {
		total = total.Add(MonthlyCost(sub.Amount, sub.BillingCycle))
	}
	return total, nil
}
