package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
)

// The income/transfer/delete scenario: A starts at 100, income 50 brings it
// to 150, a 30 transfer to B leaves A=120 B=30, deleting the transfer
// restores A=150 B=0.
func TestLedgerScenario(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	accounts := NewAccountService(db)
	ledger := NewTransactionService(db)

	a := mustAccount(t, accounts, user.ID, "A", "100")
	b := mustAccount(t, accounts, user.ID, "B", "0")

	_, err := ledger.Create(user.ID, TransactionForm{
		AccountID: a.ID,
		Type:      models.TxIncome,
		Amount:    dec(t, "50"),
		Category:  "salary",
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	if got := balanceOf(t, accounts, user.ID, a.ID); !got.Equal(dec(t, "150")) {
		t.Fatalf("A after income = %s, want 150", got)
	}

	transfer, err := ledger.Create(user.ID, TransactionForm{
		AccountID:   a.ID,
		ToAccountID: b.ID,
		Type:        models.TxTransfer,
		Amount:      dec(t, "30"),
		Category:    "transfer",
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}
	if got := balanceOf(t, accounts, user.ID, a.ID); !got.Equal(dec(t, "120")) {
		t.Fatalf("A after transfer = %s, want 120", got)
	}
	if got := balanceOf(t, accounts, user.ID, b.ID); !got.Equal(dec(t, "30")) {
		t.Fatalf("B after transfer = %s, want 30", got)
	}

	if err := ledger.Delete(user.ID, transfer.ID); err != nil {
		t.Fatalf("delete transfer: %v", err)
	}
	if got := balanceOf(t, accounts, user.ID, a.ID); !got.Equal(dec(t, "150")) {
		t.Fatalf("A after delete = %s, want 150", got)
	}
	if got := balanceOf(t, accounts, user.ID, b.ID); !got.Equal(dec(t, "0")) {
		t.Fatalf("B after delete = %s, want 0", got)
	}
}

// Balance conservation: after any mix of creates, updates and deletes the
// sum of balances equals initial sum + income - expenses; transfers net to
// zero.
func TestBalanceConservation(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	accounts := NewAccountService(db)
	ledger := NewTransactionService(db)

	a := mustAccount(t, accounts, user.ID, "A", "200")
	b := mustAccount(t, accounts, user.ID, "B", "50")

	forms := []TransactionForm{
		{AccountID: a.ID, Type: models.TxIncome, Amount: dec(t, "1000"), Category: "salary"},
		{AccountID: a.ID, Type: models.TxExpense, Amount: dec(t, "120.50"), Category: "groceries"},
		{AccountID: b.ID, Type: models.TxExpense, Amount: dec(t, "33.25"), Category: "fuel"},
		{AccountID: a.ID, ToAccountID: b.ID, Type: models.TxTransfer, Amount: dec(t, "400"), Category: "transfer"},
		{AccountID: b.ID, ToAccountID: a.ID, Type: models.TxTransfer, Amount: dec(t, "75"), Category: "transfer"},
	}
	created := make([]*models.Transaction, 0, len(forms))
	for i, f := range forms {
		tx, err := ledger.Create(user.ID, f)
		if err != nil {
			t.Fatalf("create #%d: %v", i, err)
		}
		created = append(created, tx)
	}

	// delete one expense, update the income
	if err := ledger.Delete(user.ID, created[2].ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	if _, err := ledger.Update(user.ID, created[0].ID, TransactionForm{
		AccountID: a.ID, Type: models.TxIncome, Amount: dec(t, "900"), Category: "salary",
	}); err != nil {
		t.Fatalf("update income: %v", err)
	}

	total := balanceOf(t, accounts, user.ID, a.ID).Add(balanceOf(t, accounts, user.ID, b.ID))
	// 200 + 50 initial, +900 income, -120.50 expense; transfers cancel out
	want := dec(t, "1029.50")
	if !total.Equal(want) {
		t.Fatalf("total balance = %s, want %s", total, want)
	}
}

// Reverse-then-reapply with identical fields must be a balance no-op.
func TestUpdateIdempotentReversal(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	accounts := NewAccountService(db)
	ledger := NewTransactionService(db)

	a := mustAccount(t, accounts, user.ID, "A", "500")
	b := mustAccount(t, accounts, user.ID, "B", "0")

	tx, err := ledger.Create(user.ID, TransactionForm{
		AccountID:   a.ID,
		ToAccountID: b.ID,
		Type:        models.TxTransfer,
		Amount:      dec(t, "123.45"),
		Category:    "transfer",
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}
	beforeA := balanceOf(t, accounts, user.ID, a.ID)
	beforeB := balanceOf(t, accounts, user.ID, b.ID)

	same := TransactionForm{
		AccountID:   a.ID,
		ToAccountID: b.ID,
		Type:        models.TxTransfer,
		Amount:      dec(t, "123.45"),
		Category:    "transfer",
		Date:        tx.Date,
	}
	for i := 0; i < 3; i++ {
		if _, err := ledger.Update(user.ID, tx.ID, same); err != nil {
			t.Fatalf("update #%d: %v", i, err)
		}
	}

	if got := balanceOf(t, accounts, user.ID, a.ID); !got.Equal(beforeA) {
		t.Fatalf("A = %s, want unchanged %s", got, beforeA)
	}
	if got := balanceOf(t, accounts, user.ID, b.ID); !got.Equal(beforeB) {
		t.Fatalf("B = %s, want unchanged %s", got, beforeB)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	accounts := NewAccountService(db)
	ledger := NewTransactionService(db)
	a := mustAccount(t, accounts, user.ID, "A", "100")

	cases := []struct {
		name string
		form TransactionForm
		want error
	}{
		{"negative amount", TransactionForm{AccountID: a.ID, Type: models.TxExpense, Amount: dec(t, "-5"), Category: "x"}, ErrInvalidAmount},
		{"zero amount", TransactionForm{AccountID: a.ID, Type: models.TxIncome, Amount: decimal.Zero, Category: "x"}, ErrInvalidAmount},
		{"unknown type", TransactionForm{AccountID: a.ID, Type: "loan", Amount: dec(t, "5"), Category: "x"}, ErrInvalidType},
		{"transfer without destination", TransactionForm{AccountID: a.ID, Type: models.TxTransfer, Amount: dec(t, "5"), Category: "x"}, ErrMissingDestination},
		{"transfer to itself", TransactionForm{AccountID: a.ID, ToAccountID: a.ID, Type: models.TxTransfer, Amount: dec(t, "5"), Category: "x"}, ErrSameAccount},
		{"unknown account", TransactionForm{AccountID: "nope", Type: models.TxExpense, Amount: dec(t, "5"), Category: "x"}, ErrAccountNotFound},
		{"future date", TransactionForm{AccountID: a.ID, Type: models.TxExpense, Amount: dec(t, "5"), Category: "x", Date: time.Now().AddDate(0, 0, 2)}, ErrDateInFuture},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ledger.Create(user.ID, tc.form); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	// nothing should have moved
	if got := balanceOf(t, accounts, user.ID, a.ID); !got.Equal(dec(t, "100")) {
		t.Fatalf("balance = %s, want 100 after rejected creates", got)
	}
}

// A create with no account falls back to a synthesized default account.
func TestCreateFallsBackToDefaultAccount(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	accounts := NewAccountService(db)
	ledger := NewTransactionService(db)

	tx, err := ledger.Create(user.ID, TransactionForm{
		Type:     models.TxIncome,
		Amount:   dec(t, "10"),
		Category: "misc",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.AccountID == "" {
		t.Fatal("transaction has no account")
	}
	if got := balanceOf(t, accounts, user.ID, tx.AccountID); !got.Equal(dec(t, "10")) {
		t.Fatalf("default account balance = %s, want 10", got)
	}
}

func TestSummaryWindow(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	accounts := NewAccountService(db)
	ledger := NewTransactionService(db)

	a := mustAccount(t, accounts, user.ID, "A", "0")
	b := mustAccount(t, accounts, user.ID, "B", "0")

	forms := []TransactionForm{
		{AccountID: a.ID, Type: models.TxIncome, Amount: dec(t, "1000"), Category: "salary"},
		{AccountID: a.ID, Type: models.TxExpense, Amount: dec(t, "400"), Category: "groceries"},
		{AccountID: a.ID, Type: models.TxExpense, Amount: dec(t, "200"), Category: "fuel"},
		// transfers must not show up in any total
		{AccountID: a.ID, ToAccountID: b.ID, Type: models.TxTransfer, Amount: dec(t, "300"), Category: "transfer"},
	}
	for i, f := range forms {
		if _, err := ledger.Create(user.ID, f); err != nil {
			t.Fatalf("create #%d: %v", i, err)
		}
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	end := start.AddDate(0, 0, 3)
	sum, err := ledger.SummaryWindow(user.ID, start, end, "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if !sum.TotalIncome.Equal(dec(t, "1000")) {
		t.Errorf("total income = %s, want 1000", sum.TotalIncome)
	}
	if !sum.TotalExpenses.Equal(dec(t, "600")) {
		t.Errorf("total expenses = %s, want 600", sum.TotalExpenses)
	}
	if got := sum.ByCategory["groceries"]; !got.Equal(dec(t, "400")) {
		t.Errorf("groceries = %s, want 400", got)
	}
	if got := sum.ByCategory["fuel"]; !got.Equal(dec(t, "200")) {
		t.Errorf("fuel = %s, want 200", got)
	}
	if _, ok := sum.ByCategory["transfer"]; ok {
		t.Error("transfer leaked into category breakdown")
	}

	perAccount, err := ledger.AccountsSummary(user.ID, start, end)
	if err != nil {
		t.Fatalf("accounts summary: %v", err)
	}
	if got := perAccount[a.ID].TotalIncome; !got.Equal(dec(t, "1000")) {
		t.Errorf("account A income = %s, want 1000", got)
	}
	if got := perAccount[a.ID].TotalExpenses; !got.Equal(dec(t, "600")) {
		t.Errorf("account A expenses = %s, want 600", got)
	}
}

func TestListFilters(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db)
	accounts := NewAccountService(db)
	ledger := NewTransactionService(db)

	a := mustAccount(t, accounts, user.ID, "A", "0")
	seed := []TransactionForm{
		{AccountID: a.ID, Type: models.TxIncome, Amount: dec(t, "1000"), Category: "salary", Description: "Monthly pay"},
		{AccountID: a.ID, Type: models.TxExpense, Amount: dec(t, "40"), Category: "groceries", Merchant: "GroceryMart", PaymentMethod: "card"},
		{AccountID: a.ID, Type: models.TxExpense, Amount: dec(t, "15"), Category: "fuel", PaymentMethod: "cash"},
	}
	for i, f := range seed {
		if _, err := ledger.Create(user.ID, f); err != nil {
			t.Fatalf("create #%d: %v", i, err)
		}
	}

	byType, total, err := ledger.List(user.ID, TransactionFilter{Type: models.TxExpense})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if total != 2 || len(byType) != 2 {
		t.Fatalf("expense filter: total=%d len=%d, want 2/2", total, len(byType))
	}

	byCat, _, err := ledger.List(user.ID, TransactionFilter{Categories: []string{"fuel"}})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCat) != 1 || !byCat[0].Amount.Equal(dec(t, "15")) {
		t.Fatalf("category filter returned %d rows", len(byCat))
	}

	bySearch, _, err := ledger.List(user.ID, TransactionFilter{Search: "grocerymart"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Merchant != "GroceryMart" {
		t.Fatalf("search filter returned %d rows", len(bySearch))
	}

	min := dec(t, "100")
	byAmount, _, err := ledger.List(user.ID, TransactionFilter{MinAmount: &min})
	if err != nil {
		t.Fatalf("list by amount: %v", err)
	}
	if len(byAmount) != 1 || byAmount[0].Type != models.TxIncome {
		t.Fatalf("amount filter returned %d rows", len(byAmount))
	}

	byMethod, _, err := ledger.List(user.ID, TransactionFilter{PaymentMethods: []string{"cash"}})
	if err != nil {
		t.Fatalf("list by payment method: %v", err)
	}
	if len(byMethod) != 1 || byMethod[0].Category != "fuel" {
		t.Fatalf("payment method filter returned %d rows", len(byMethod))
	}
}
