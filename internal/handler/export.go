package handler

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sbo24/finance-flow/internal/models"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler streams the user's data as CSV or XLSX downloads.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func exportHeaders(c *gin.Context, entity, ext, contentType string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		fmt.Sprintf("%s_%s.%s", entity, time.Now().Format("2006-01-02"), ext)))
}

var transactionCSVHeader = []string{
	"ID", "Date", "Type", "Amount", "Category", "Subcategory",
	"Description", "Account", "To Account", "Payment Method",
	"Merchant", "Tags", "Notes",
}

// writeTransactionsCSV writes the export independent of HTTP so the format
// can be tested against a buffer.
func writeTransactionsCSV(w io.Writer, txs []models.Transaction, accountNames map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionCSVHeader); err != nil {
		return err
	}
	for _, t := range txs {
		toAccount := ""
		if t.ToAccountID != nil {
			toAccount = accountNames[*t.ToAccountID]
		}
		row := []string{
			t.ID,
			t.Date.Format("2006-01-02"),
			t.Type,
			t.Amount.StringFixed(2),
			t.Category,
			t.Subcategory,
			t.Description,
			accountNames[t.AccountID],
			toAccount,
			t.PaymentMethod,
			t.Merchant,
			strings.Join(t.Tags, ";"),
			t.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSubscriptionsCSV(w io.Writer, subs []models.Subscription) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Amount", "Billing Cycle", "Next Due Date", "Category", "Provider", "Active"}); err != nil {
		return err
	}
	for _, s := range subs {
		row := []string{
			s.ID,
			s.Name,
			s.Amount.StringFixed(2),
			s.BillingCycle,
			s.NextDueDate.Format("2006-01-02"),
			s.Category,
			s.Provider,
			fmt.Sprintf("%t", s.IsActive),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeFixedExpensesCSV(w io.Writer, items []models.FixedExpense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Amount", "Frequency", "Next Due Date", "Category", "Auto Pay", "Active"}); err != nil {
		return err
	}
	for _, e := range items {
		row := []string{
			e.ID,
			e.Name,
			e.Amount.StringFixed(2),
			e.Frequency,
			e.NextDueDate.Format("2006-01-02"),
			e.Category,
			fmt.Sprintf("%t", e.AutoPay),
			fmt.Sprintf("%t", e.IsActive),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (h *ExportHandler) loadTransactions(userID string) ([]models.Transaction, map[string]string, error) {
	var txs []models.Transaction
	if err := h.DB.Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, nil, err
	}
	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return txs, names, nil
}

// TransactionsCSV exports the full ledger.
func (h *ExportHandler) TransactionsCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	txs, names, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	exportHeaders(c, "transactions", "csv", "text/csv; charset=utf-8")
	if err := writeTransactionsCSV(c.Writer, txs, names); err != nil {
		c.Abort()
	}
}

// TransactionsXLSX exports the ledger as a spreadsheet.
func (h *ExportHandler) TransactionsXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	txs, names, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}

	f := excelize.NewFile()
	sheet := "Transactions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, head := range transactionCSVHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}
	for idx, t := range txs {
		row := idx + 2
		toAccount := ""
		if t.ToAccountID != nil {
			toAccount = names[*t.ToAccountID]
		}
		values := []interface{}{
			t.ID,
			t.Date.Format("2006-01-02"),
			t.Type,
			t.Amount.StringFixed(2),
			t.Category,
			t.Subcategory,
			t.Description,
			names[t.AccountID],
			toAccount,
			t.PaymentMethod,
			t.Merchant,
			strings.Join(t.Tags, ";"),
			t.Notes,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	exportHeaders(c, "transactions", "xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Abort()
	}
}

// SubscriptionsCSV exports the subscription list.
func (h *ExportHandler) SubscriptionsCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var subs []models.Subscription
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("next_due_date ASC").Find(&subs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	exportHeaders(c, "subscriptions", "csv", "text/csv; charset=utf-8")
	if err := writeSubscriptionsCSV(c.Writer, subs); err != nil {
		c.Abort()
	}
}

// FixedExpensesCSV exports the fixed expense list.
func (h *ExportHandler) FixedExpensesCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var items []models.FixedExpense
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("next_due_date ASC").Find(&items).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	exportHeaders(c, "fixed_expenses", "csv", "text/csv; charset=utf-8")
	if err := writeFixedExpensesCSV(c.Writer, items); err != nil {
		c.Abort()
	}
}
