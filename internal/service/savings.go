package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SavingsService manages savings goals and their contributions. A goal's
// CurrentAmount and its contribution rows only change together inside one
// database transaction, so the sum invariant holds at every commit point.
type SavingsService struct {
	db *gorm.DB
}

func NewSavingsService(db *gorm.DB) *SavingsService {
	return &SavingsService{db: db}
}

type SavingsGoalForm struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
	Category     string
	Icon         string
	Color        string
}

func (s *SavingsService) List(userID string) ([]models.SavingsGoal, error) {
	goals := make([]models.SavingsGoal, 0)
	err := s.db.Preload("Contributions", func(db *gorm.DB) *gorm.DB {
		return db.Order("date DESC, created_at DESC")
	}).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func (s *SavingsService) Get(userID, id string) (*models.SavingsGoal, error) {
	var g models.SavingsGoal
	err := s.db.Preload("Contributions").Where("id = ? AND user_id = ?", id, userID).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &g, nil
}

func (s *SavingsService) Create(userID string, form SavingsGoalForm) (*models.SavingsGoal, error) {
	if !form.TargetAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	g := models.SavingsGoal{
		UserID:        userID,
		Name:          form.Name,
		TargetAmount:  form.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      form.Deadline,
		Category:      form.Category,
		Icon:          form.Icon,
		Color:         form.Color,
	}
	if err := s.db.Create(&g).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &g, nil
}

func (s *SavingsService) Update(userID, id string, form SavingsGoalForm) (*models.SavingsGoal, error) {
	if !form.TargetAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var g models.SavingsGoal
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	g.Name = form.Name
	g.TargetAmount = form.TargetAmount
	g.Deadline = form.Deadline
	g.Category = form.Category
	g.Icon = form.Icon
	g.Color = form.Color
	if err := s.db.Save(&g).Error; err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return &g, nil
}

func (s *SavingsService) Delete(userID, id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var g models.SavingsGoal
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("goal_id = ?", g.ID).Delete(&models.Contribution{}).Error; err != nil {
			return err
		}
		return tx.Delete(&g).Error
	})
	return serviceErr("delete goal", err)
}

// AddContribution appends a positive contribution and bumps CurrentAmount.
func (s *SavingsService) AddContribution(userID, goalID string, amount decimal.Decimal, note string) (*models.SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.applyContribution(userID, goalID, amount, note)
}

// Withdraw appends a negative contribution after checking the goal holds
// enough; on insufficient funds nothing is written.
func (s *SavingsService) Withdraw(userID, goalID string, amount decimal.Decimal, note string) (*models.SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.applyContribution(userID, goalID, amount.Neg(), note)
}

func (s *SavingsService) applyContribution(userID, goalID string, amount decimal.Decimal, note string) (*models.SavingsGoal, error) {
	var g models.SavingsGoal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		next := g.CurrentAmount.Add(amount)
		if next.IsNegative() {
			return ErrInsufficientFunds
		}
		c := models.Contribution{
			GoalID: g.ID,
			Amount: amount,
			Date:   time.Now(),
			Note:   note,
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		g.CurrentAmount = next
		return tx.Model(&g).Update("current_amount", next).Error
	})
	if err != nil {
		return nil, serviceErr("apply contribution", err)
	}
	return &g, nil
}
