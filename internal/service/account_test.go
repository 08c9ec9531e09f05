package service

import (
	"errors"
	"testing"

	"github.com/sbo24/finance-flow/internal/models"
)

func countDefaults(t *testing.T, svc *AccountService, userID string) int {
	t.Helper()
	accounts, err := svc.List(userID)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	n := 0
	for _, a := range accounts {
		if a.IsDefault {
			n++
		}
	}
	return n
}

// Flipping the default flag around must never leave two defaults behind.
func TestDefaultAccountExclusivity(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	svc := NewAccountService(db)

	mk := func(name string, isDefault bool) *models.Account {
		acc, err := svc.Create(user.ID, AccountForm{
			Name: name, Type: models.AccountChecking, IsDefault: isDefault,
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		return acc
	}

	a := mk("A", true)
	b := mk("B", true)
	c := mk("C", false)

	if n := countDefaults(t, svc, user.ID); n != 1 {
		t.Fatalf("defaults after creates = %d, want 1", n)
	}

	yes := true
	for _, id := range []string{a.ID, c.ID, b.ID, a.ID} {
		if _, err := svc.Update(user.ID, id, AccountUpdate{IsDefault: &yes}); err != nil {
			t.Fatalf("update %s: %v", id, err)
		}
		if n := countDefaults(t, svc, user.ID); n != 1 {
			t.Fatalf("defaults after flipping to %s = %d, want 1", id, n)
		}
	}

	got, err := svc.EnsureDefault(user.ID)
	if err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("default account = %s, want %s", got.ID, a.ID)
	}
}

func TestEnsureDefaultSynthesizesCashAccount(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	svc := NewAccountService(db)

	first, err := svc.EnsureDefault(user.ID)
	if err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	if first.Type != models.AccountCash || !first.Balance.IsZero() {
		t.Fatalf("synthesized account = %s/%s, want zero-balance cash", first.Type, first.Balance)
	}

	// idempotent: a second call returns the same account
	second, err := svc.EnsureDefault(user.ID)
	if err != nil {
		t.Fatalf("ensure default again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second call created a new account %s", second.ID)
	}
	if n := countDefaults(t, svc, user.ID); n != 1 {
		t.Fatalf("defaults = %d, want 1", n)
	}
}

func TestUpdateBalanceOverwrite(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	svc := NewAccountService(db)

	a := mustAccount(t, svc, user.ID, "A", "100")
	newBalance := dec(t, "250.75")
	updated, err := svc.Update(user.ID, a.ID, AccountUpdate{Balance: &newBalance})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Balance.Equal(newBalance) {
		t.Fatalf("balance = %s, want %s", updated.Balance, newBalance)
	}
}

// Deleting an account removes its transactions and reverses transfer effects
// on the surviving side.
func TestDeleteAccountCascades(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	accounts := NewAccountService(db)
	ledger := NewTransactionService(db)

	a := mustAccount(t, accounts, user.ID, "A", "100")
	b := mustAccount(t, accounts, user.ID, "B", "0")

	// A -> B transfer of 40, then a plain expense on A
	if _, err := ledger.Create(user.ID, TransactionForm{
		AccountID: a.ID, ToAccountID: b.ID, Type: models.TxTransfer,
		Amount: dec(t, "40"), Category: "transfer",
	}); err != nil {
		t.Fatalf("create transfer: %v", err)
	}
	if _, err := ledger.Create(user.ID, TransactionForm{
		AccountID: a.ID, Type: models.TxExpense, Amount: dec(t, "10"), Category: "misc",
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if err := accounts.Delete(user.ID, a.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, err := accounts.Get(user.ID, a.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("get deleted account err = %v, want ErrAccountNotFound", err)
	}
	// B's +40 from the transfer is reversed along with the cascade
	if got := balanceOf(t, accounts, user.ID, b.ID); !got.Equal(dec(t, "0")) {
		t.Fatalf("B after cascade = %s, want 0", got)
	}
	var count int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if count != 0 {
		t.Fatalf("transactions left after cascade = %d, want 0", count)
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	svc := NewAccountService(db)

	_, err := svc.Create(user.ID, AccountForm{Name: "X", Type: "offshore"})
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("err = %v, want ErrInvalidType", err)
	}
}
