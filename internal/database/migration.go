package database

import (
	"fmt"

	"github.com/sbo24/finance-flow/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.Budget{},
		&models.SavingsGoal{},
		&models.Contribution{},
		&models.Subscription{},
		&models.FixedExpense{},
		&models.DashboardSettings{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
