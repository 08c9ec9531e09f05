package handler

import (
	"net/http"
	"strconv"

	"github.com/sbo24/finance-flow/internal/service"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FixedExpenseHandler serves recurring fixed expenses (rent, utilities,
// insurance and the like).
type FixedExpenseHandler struct {
	Expenses     *service.FixedExpenseService
	Cache        *DashboardCache
	UpcomingDays int
}

func NewFixedExpenseHandler(expenses *service.FixedExpenseService, cache *DashboardCache, upcomingDays int) *FixedExpenseHandler {
	if upcomingDays <= 0 {
		upcomingDays = 7
	}
	return &FixedExpenseHandler{Expenses: expenses, Cache: cache, UpcomingDays: upcomingDays}
}

type fixedExpenseReq struct {
	Name        string `json:"name" binding:"required,max=64"`
	Amount      string `json:"amount" binding:"required"`
	Frequency   string `json:"frequency" binding:"required"`
	NextDueDate string `json:"next_due_date" binding:"required"`
	Category    string `json:"category" binding:"max=32"`
	AutoPay     bool   `json:"auto_pay"`
	IsActive    *bool  `json:"is_active"`
	Notes       string `json:"notes" binding:"max=512"`
}

func (r *fixedExpenseReq) toForm(c *gin.Context) (service.FixedExpenseForm, bool) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || util.ValidateAmount(amount) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return service.FixedExpenseForm{}, false
	}
	due, ok := parseDate(r.NextDueDate)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due date")
		return service.FixedExpenseForm{}, false
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.FixedExpenseForm{
		Name:        r.Name,
		Amount:      amount,
		Frequency:   r.Frequency,
		NextDueDate: due,
		Category:    r.Category,
		AutoPay:     r.AutoPay,
		IsActive:    active,
		Notes:       r.Notes,
	}, true
}

func (h *FixedExpenseHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.Expenses.List(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	total, err := h.Expenses.MonthlyTotal(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{
		"fixed_expenses": items,
		"monthly_total":  total,
	})
}

func (h *FixedExpenseHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req fixedExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	item, err := h.Expenses.Create(user.ID, form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"fixed_expense": item})
}

func (h *FixedExpenseHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req fixedExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	item, err := h.Expenses.Update(user.ID, c.Param("id"), form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"fixed_expense": item})
}

func (h *FixedExpenseHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Expenses.Delete(user.ID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"message": "fixed expense deleted"})
}

func (h *FixedExpenseHandler) Upcoming(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	days := h.UpcomingDays
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 365 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "days must be 1-365")
			return
		}
		days = v
	}
	items, err := h.Expenses.Upcoming(user.ID, days)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"fixed_expenses": items, "days": days})
}
