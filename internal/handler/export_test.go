package handler

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestWriteTransactionsCSVRoundTrip(t *testing.T) {
	date := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("parse date %q: %v", s, err)
		}
		return d
	}
	txs := []models.Transaction{
		{
			ID:          "t1",
			AccountID:   "a1",
			Type:        models.TxExpense,
			Amount:      decimal.RequireFromString("42.50"),
			Category:    "groceries",
			Description: "weekly shop, \"organic\"",
			Date:        date("2025-08-01"),
			Tags:        []string{"food", "weekly"},
		},
		{
			ID:        "t2",
			AccountID: "a1",
			Type:      models.TxIncome,
			Amount:    decimal.RequireFromString("1800.00"),
			Category:  "salary",
			Date:      date("2025-08-02"),
		},
		{
			ID:          "t3",
			AccountID:   "a1",
			ToAccountID: strPtr("a2"),
			Type:        models.TxTransfer,
			Amount:      decimal.RequireFromString("300.00"),
			Category:    "transfer",
			Date:        date("2025-08-03"),
		},
	}
	names := map[string]string{"a1": "Checking", "a2": "Savings"}

	var buf bytes.Buffer
	if err := writeTransactionsCSV(&buf, txs, names); err != nil {
		t.Fatalf("writeTransactionsCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if got, want := len(rows), len(txs)+1; got != want {
		t.Fatalf("row count = %d, want %d", got, want)
	}
	if rows[0][0] != "ID" || rows[0][3] != "Amount" {
		t.Fatalf("unexpected header: %v", rows[0])
	}

	for i, tx := range txs {
		row := rows[i+1]
		if row[0] != tx.ID {
			t.Errorf("row %d id = %q, want %q", i, row[0], tx.ID)
		}
		if _, err := time.Parse("2006-01-02", row[1]); err != nil {
			t.Errorf("row %d date %q is not ISO: %v", i, row[1], err)
		}
		amount, err := decimal.NewFromString(row[3])
		if err != nil {
			t.Fatalf("row %d amount %q: %v", i, row[3], err)
		}
		if !amount.Equal(tx.Amount) {
			t.Errorf("row %d amount = %s, want %s", i, amount, tx.Amount)
		}
	}

	// quoting survives the round trip
	if rows[1][6] != `weekly shop, "organic"` {
		t.Errorf("description = %q, quoting lost", rows[1][6])
	}
	if rows[3][8] != "Savings" {
		t.Errorf("transfer destination = %q, want Savings", rows[3][8])
	}
}

func TestWriteSubscriptionsCSV(t *testing.T) {
	due, _ := time.Parse("2006-01-02", "2025-09-15")
	subs := []models.Subscription{
		{
			ID:           "s1",
			Name:         "Video Streaming",
			Amount:       decimal.RequireFromString("15.99"),
			BillingCycle: models.CycleMonthly,
			NextDueDate:  due,
			Category:     "entertainment",
			IsActive:     true,
		},
	}

	var buf bytes.Buffer
	if err := writeSubscriptionsCSV(&buf, subs); err != nil {
		t.Fatalf("writeSubscriptionsCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	got := rows[1]
	if got[1] != "Video Streaming" || got[2] != "15.99" || got[4] != "2025-09-15" || got[7] != "true" {
		t.Errorf("unexpected row: %v", got)
	}
}

func TestWriteFixedExpensesCSV(t *testing.T) {
	due, _ := time.Parse("2006-01-02", "2025-09-01")
	items := []models.FixedExpense{
		{
			ID:          "f1",
			Name:        "Rent",
			Amount:      decimal.RequireFromString("1200.00"),
			Frequency:   models.CycleMonthly,
			NextDueDate: due,
			Category:    "housing",
			AutoPay:     true,
			IsActive:    true,
		},
	}

	var buf bytes.Buffer
	if err := writeFixedExpensesCSV(&buf, items); err != nil {
		t.Fatalf("writeFixedExpensesCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	got := rows[1]
	if got[1] != "Rent" || got[2] != "1200.00" || got[6] != "true" {
		t.Errorf("unexpected row: %v", got)
	}
}
