package service

import (
	"errors"
	"testing"
)

func TestContributionsSumToCurrentAmount(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	svc := NewSavingsService(db)

	goal, err := svc.Create(user.ID, SavingsGoalForm{Name: "Vacation", TargetAmount: dec(t, "1000")})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	if _, err := svc.AddContribution(user.ID, goal.ID, dec(t, "300"), ""); err != nil {
		t.Fatalf("contribute 300: %v", err)
	}
	if _, err := svc.AddContribution(user.ID, goal.ID, dec(t, "150.50"), "bonus"); err != nil {
		t.Fatalf("contribute 150.50: %v", err)
	}
	if _, err := svc.Withdraw(user.ID, goal.ID, dec(t, "100"), "car repair"); err != nil {
		t.Fatalf("withdraw 100: %v", err)
	}

	got, err := svc.Get(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if !got.CurrentAmount.Equal(dec(t, "350.50")) {
		t.Fatalf("current amount = %s, want 350.50", got.CurrentAmount)
	}
	sum := dec(t, "0")
	for _, c := range got.Contributions {
		sum = sum.Add(c.Amount)
	}
	if !sum.Equal(got.CurrentAmount) {
		t.Fatalf("contribution sum %s != current amount %s", sum, got.CurrentAmount)
	}
	if len(got.Contributions) != 3 {
		t.Fatalf("contributions = %d, want 3", len(got.Contributions))
	}
}

// Overdrawing a goal must fail without touching the goal or its rows.
func TestWithdrawGuard(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	svc := NewSavingsService(db)

	goal, err := svc.Create(user.ID, SavingsGoalForm{Name: "Emergency", TargetAmount: dec(t, "500")})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if _, err := svc.AddContribution(user.ID, goal.ID, dec(t, "50"), ""); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	if _, err := svc.Withdraw(user.ID, goal.ID, dec(t, "50.01"), ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	got, err := svc.Get(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if !got.CurrentAmount.Equal(dec(t, "50")) {
		t.Fatalf("current amount = %s, want 50 (unchanged)", got.CurrentAmount)
	}
	if len(got.Contributions) != 1 {
		t.Fatalf("contributions = %d, want 1 (unchanged)", len(got.Contributions))
	}

	// an exact withdrawal drains to zero and is allowed
	if _, err := svc.Withdraw(user.ID, goal.ID, dec(t, "50"), ""); err != nil {
		t.Fatalf("exact withdraw: %v", err)
	}
	got, _ = svc.Get(user.ID, goal.ID)
	if !got.CurrentAmount.IsZero() {
		t.Fatalf("current amount = %s, want 0", got.CurrentAmount)
	}
}

func TestWithdrawRejectsNonPositive(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	svc := NewSavingsService(db)

	goal, err := svc.Create(user.ID, SavingsGoalForm{Name: "G", TargetAmount: dec(t, "10")})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if _, err := svc.Withdraw(user.ID, goal.ID, dec(t, "-5"), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.AddContribution(user.ID, goal.ID, dec(t, "0"), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}
