package handler

import (
	"net/http"
	"strconv"

	"github.com/sbo24/finance-flow/internal/service"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SubscriptionHandler serves recurring subscriptions.
type SubscriptionHandler struct {
	Subscriptions *service.SubscriptionService
	Cache         *DashboardCache
	UpcomingDays  int
}

func NewSubscriptionHandler(subs *service.SubscriptionService, cache *DashboardCache, upcomingDays int) *SubscriptionHandler {
	if upcomingDays <= 0 {
		upcomingDays = 7
	}
	return &SubscriptionHandler{Subscriptions: subs, Cache: cache, UpcomingDays: upcomingDays}
}

type subscriptionReq struct {
	Name         string `json:"name" binding:"required,max=64"`
	Amount       string `json:"amount" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"required"`
	NextDueDate  string `json:"next_due_date" binding:"required"`
	Category     string `json:"category" binding:"max=32"`
	Provider     string `json:"provider" binding:"max=64"`
	Website      string `json:"website" binding:"max=128"`
	IsActive     *bool  `json:"is_active"`
}

func (r *subscriptionReq) toForm(c *gin.Context) (service.SubscriptionForm, bool) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || util.ValidateAmount(amount) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return service.SubscriptionForm{}, false
	}
	due, ok := parseDate(r.NextDueDate)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due date")
		return service.SubscriptionForm{}, false
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.SubscriptionForm{
		Name:         r.Name,
		Amount:       amount,
		BillingCycle: r.BillingCycle,
		NextDueDate:  due,
		Category:     r.Category,
		Provider:     r.Provider,
		Website:      r.Website,
		IsActive:     active,
	}, true
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	subs, err := h.Subscriptions.List(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	total, err := h.Subscriptions.MonthlyTotal(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{
		"subscriptions": subs,
		"monthly_total": total,
	})
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req subscriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	sub, err := h.Subscriptions.Create(user.ID, form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"subscription": sub})
}

func (h *SubscriptionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req subscriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	sub, err := h.Subscriptions.Update(user.ID, c.Param("id"), form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"subscription": sub})
}

func (h *SubscriptionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Subscriptions.Delete(user.ID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"message": "subscription deleted"})
}

// Upcoming lists active subscriptions due within ?days (default from config).
func (h *SubscriptionHandler) Upcoming(c *gin.Context) {
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
	subs, err := h.Subscriptions.Upcoming(user.ID, days)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"subscriptions": subs, "days": days})
}
