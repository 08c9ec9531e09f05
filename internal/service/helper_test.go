package service

import (
	"path/filepath"
	"testing"

	"github.com/sbo24/finance-flow/internal/database"
	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := models.User{Username: "tester", PasswordHash: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &u
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func mustAccount(t *testing.T, svc *AccountService, userID, name, balance string) *models.Account {
	t.Helper()
	acc, err := svc.Create(userID, AccountForm{
		Name:           name,
		Type:           models.AccountChecking,
		InitialBalance: dec(t, balance),
		Currency:       "USD",
	})
	if err != nil {
		t.Fatalf("create account %s: %v", name, err)
	}
	return acc
}

func balanceOf(t *testing.T, svc *AccountService, userID, id string) decimal.Decimal {
	t.Helper()
	acc, err := svc.Get(userID, id)
	if err != nil {
		t.Fatalf("get account %s: %v", id, err)
	}
	return acc.Balance
}
