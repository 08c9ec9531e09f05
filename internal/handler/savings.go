package handler

import (
	"net/http"

	"github.com/sbo24/finance-flow/internal/models"
	"github.com/sbo24/finance-flow/internal/service"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SavingsHandler serves savings goals and their contribution ledger.
type SavingsHandler struct {
	Savings *service.SavingsService
	Cache   *DashboardCache
}

func NewSavingsHandler(savings *service.SavingsService, cache *DashboardCache) *SavingsHandler {
	return &SavingsHandler{Savings: savings, Cache: cache}
}

type savingsGoalReq struct {
	Name         string `json:"name" binding:"required,max=64"`
	TargetAmount string `json:"target_amount" binding:"required"`
	Deadline     string `json:"deadline"`
	Category     string `json:"category" binding:"max=32"`
	Icon         string `json:"icon" binding:"max=32"`
	Color        string `json:"color" binding:"max=16"`
}

func (r *savingsGoalReq) toForm(c *gin.Context) (service.SavingsGoalForm, bool) {
	target, err := decimal.NewFromString(r.TargetAmount)
	if err != nil || util.ValidateAmount(target) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid target amount")
		return service.SavingsGoalForm{}, false
	}
	form := service.SavingsGoalForm{
		Name:         r.Name,
		TargetAmount: target,
		Category:     r.Category,
		Icon:         r.Icon,
		Color:        r.Color,
	}
	if r.Deadline != "" {
		d, ok := parseDate(r.Deadline)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid deadline")
			return service.SavingsGoalForm{}, false
		}
		form.Deadline = &d
	}
	return form, true
}

func (h *SavingsHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	goals, err := h.Savings.List(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"goals": goals})
}

func (h *SavingsHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	goal, err := h.Savings.Get(user.ID, c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"goal": goal})
}

func (h *SavingsHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req savingsGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	goal, err := h.Savings.Create(user.ID, form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"goal": goal})
}

func (h *SavingsHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req savingsGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	form, ok := req.toForm(c)
	if !ok {
		return
	}
	goal, err := h.Savings.Update(user.ID, c.Param("id"), form)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"goal": goal})
}

func (h *SavingsHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Savings.Delete(user.ID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"message": "goal deleted"})
}

type contributionReq struct {
	Amount string `json:"amount" binding:"required"`
	Note   string `json:"note" binding:"max=128"`
}

func (h *SavingsHandler) Contribute(c *gin.Context) {
	h.applyContribution(c, h.Savings.AddContribution)
}

func (h *SavingsHandler) Withdraw(c *gin.Context) {
	h.applyContribution(c, h.Savings.Withdraw)
}

func (h *SavingsHandler) applyContribution(c *gin.Context, apply func(userID, goalID string, amount decimal.Decimal, note string) (*models.SavingsGoal, error)) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req contributionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || util.ValidateAmount(amount) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return
	}
	goal, err := apply(user.ID, c.Param("id"), amount, req.Note)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"goal": goal})
}
