package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sbo24/finance-flow/internal/service"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler serves the ledger endpoints.
type TransactionHandler struct {
	Transactions *service.TransactionService
	Cache        *DashboardCache
}

func NewTransactionHandler(tx *service.TransactionService, cache *DashboardCache) *TransactionHandler {
	return &TransactionHandler{Transactions: tx, Cache: cache}
}

type transactionReq struct {
	AccountID     string   `json:"account_id"`
	ToAccountID   string   `json:"to_account_id"`
	Type          string   `json:"type" binding:"required"`
	Amount        string   `json:"amount" binding:"required"`
	Category      string   `json:"category" binding:"max=32"`
	Subcategory   string   `json:"subcategory" binding:"max=32"`
	Description   string   `json:"description" binding:"max=128"`
	Date          string   `json:"date"`
	PaymentMethod string   `json:"payment_method" binding:"max=32"`
	Tags          []string `json:"tags"`
	Merchant      string   `json:"merchant" binding:"max=64"`
	Location      string   `json:"location" binding:"max=128"`
	Notes         string   `json:"notes" binding:"max=512"`
	IsRecurring   bool     `json:"is_recurring"`
	Recurrence    string   `json:"recurrence" binding:"max=16"`
}

func (r *transactionReq) toForm(c *gin.Context) (service.TransactionForm, bool) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || util.ValidateAmount(amount) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return service.TransactionForm{}, false
	}
	form := service.TransactionForm{
		AccountID:     r.AccountID,
		ToAccountID:   r.ToAccountID,
		Type:          r.Type,
		Amount:        amount,
		Category:      r.Category,
		Subcategory:   r.Subcategory,
		Description:   r.Description,
		PaymentMethod: r.PaymentMethod,
		Tags:          r.Tags,
		Merchant:      r.Merchant,
		Location:      r.Location,
		Notes:         r.Notes,
		IsRecurring:   r.IsRecurring,
		Recurrence:    r.Recurrence,
	}
	if r.Date != "" {
		d, ok := parseDate(r.Date)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date")
			return service.TransactionForm{}, false
		}
		form.Date = d
	}
	return form, true
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	t, err := h.Transactions.Create(user.ID, form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"transaction": t})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	t, err := h.Transactions.Update(user.ID, c.Param("id"), form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"transaction": t})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Transactions.Delete(user.ID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"message": "transaction deleted"})
}

// listFilter builds a TransactionFilter from query parameters. Amounts and
// dates that fail to parse are reported, not silently dropped.
func listFilter(c *gin.Context) (service.TransactionFilter, bool) {
	f := service.TransactionFilter{
		Type:      c.Query("type"),
		AccountID: c.Query("account_id"),
		Search:    strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("start"); raw != "" {
		d, ok := parseDate(raw)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start date")
			return f, false
		}
		f.Start = &d
	}
	if raw := c.Query("end"); raw != "" {
		d, ok := parseDate(raw)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end date")
			return f, false
		}
		f.End = &d
	}
	if raw := c.Query("categories"); raw != "" {
		f.Categories = strings.Split(raw, ",")
	}
	if raw := c.Query("payment_methods"); raw != "" {
		f.PaymentMethods = strings.Split(raw, ",")
	}
	if raw := c.Query("min_amount"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid min amount")
			return f, false
		}
		f.MinAmount = &v
	}
	if raw := c.Query("max_amount"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid max amount")
			return f, false
		}
		f.MaxAmount = &v
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "0"))
	return f, true
}

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := listFilter(c)
	if !ok {
		return
	}
	txs, total, err := h.Transactions.List(user.ID, f)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{
		"transactions": txs,
		"total":        total,
		"page":         f.Page,
	})
}

// summaryWindow reads ?start / ?end, defaulting to the current month.
func summaryWindow(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)
	if raw := c.Query("start"); raw != "" {
		d, ok := parseDate(raw)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start date")
			return start, end, false
		}
		start = d
	}
	if raw := c.Query("end"); raw != "" {
		d, ok := parseDate(raw)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end date")
			return start, end, false
		}
		end = d
	}
	return start, end, true
}

func (h *TransactionHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	start, end, ok := summaryWindow(c)
	if !ok {
		return
	}
	sum, err := h.Transactions.SummaryWindow(user.ID, start, end, c.Query("account_id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"summary": sum})
}

func (h *TransactionHandler) AccountsSummary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	start, end, ok := summaryWindow(c)
	if !ok {
		return
	}
	totals, err := h.Transactions.AccountsSummary(user.ID, start, end)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"accounts": totals})
}
