package handler

import (
	"net/http"
	"time"

	"github.com/sbo24/finance-flow/internal/service"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler serves budget CRUD and the spent-cache refresh.
type BudgetHandler struct {
	Budgets *service.BudgetService
	Cache   *DashboardCache
}

func NewBudgetHandler(budgets *service.BudgetService, cache *DashboardCache) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets, Cache: cache}
}

type budgetReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	Category       string `json:"category" binding:"required,max=32"`
	Amount         string `json:"amount" binding:"required"`
	Period         string `json:"period" binding:"required"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	AlertThreshold int    `json:"alert_threshold"`
}

func (r *budgetReq) toForm(c *gin.Context) (service.BudgetForm, bool) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || util.ValidateAmount(amount) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return service.BudgetForm{}, false
	}
	form := service.BudgetForm{
		Name:           r.Name,
		Category:       r.Category,
		Amount:         amount,
		Period:         r.Period,
		AlertThreshold: r.AlertThreshold,
	}
	if r.StartDate != "" {
		d, ok := parseDate(r.StartDate)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start date")
			return service.BudgetForm{}, false
		}
		form.StartDate = d
	}
	if r.EndDate != "" {
		d, ok := parseDate(r.EndDate)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end date")
			return service.BudgetForm{}, false
		}
		form.EndDate = &d
	}
	return form, true
}

func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	budgets, err := h.Budgets.List(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"budgets": budgets})
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	b, err := h.Budgets.Create(user.ID, form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"budget": b})
}

func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	b, err := h.Budgets.Update(user.ID, c.Param("id"), form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"budget": b})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Budgets.Delete(user.ID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"message": "budget deleted"})
}

// Refresh recomputes the cached spent figures for the current period.
func (h *BudgetHandler) Refresh(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	budgets, err := h.Budgets.RefreshSpent(user.ID, time.Now())
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"budgets": budgets})
}
