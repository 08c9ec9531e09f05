package handler

import (
	"net/http"

	"github.com/sbo24/finance-flow/internal/service"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler serves account CRUD on top of the account service.
type AccountHandler struct {
	Accounts *service.AccountService
	Cache    *DashboardCache
}

func NewAccountHandler(accounts *service.AccountService, cache *DashboardCache) *AccountHandler {
	return &AccountHandler{Accounts: accounts, Cache: cache}
}

type accountReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	Type           string `json:"type" binding:"required"`
	InitialBalance string `json:"initial_balance"`
	Currency       string `json:"currency" binding:"max=8"`
	Color          string `json:"color" binding:"max=16"`
	Icon           string `json:"icon" binding:"max=32"`
	IsDefault      bool   `json:"is_default"`
}

type accountUpdateReq struct {
	Name      *string `json:"name" binding:"omitempty,max=64"`
	Type      *string `json:"type"`
	Currency  *string `json:"currency" binding:"omitempty,max=8"`
	Color     *string `json:"color" binding:"omitempty,max=16"`
	Icon      *string `json:"icon" binding:"omitempty,max=32"`
	IsDefault *bool   `json:"is_default"`
	Balance   *string `json:"balance"` // manual balance adjustment
}

func (h *AccountHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	accounts, err := h.Accounts.List(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"accounts": accounts})
}

func (h *AccountHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	acc, err := h.Accounts.Get(user.ID, c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	balance := decimal.Zero
	if req.InitialBalance != "" {
		var err error
		balance, err = decimal.NewFromString(req.InitialBalance)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid initial balance")
			return
		}
	}
	acc, err := h.Accounts.Create(user.ID, service.AccountForm{
		Name:           req.Name,
		Type:           req.Type,
		InitialBalance: balance,
		Currency:       req.Currency,
		Color:          req.Color,
		Icon:           req.Icon,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req accountUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	upd := service.AccountUpdate{
		Name:      req.Name,
		Type:      req.Type,
		Currency:  req.Currency,
		Color:     req.Color,
		Icon:      req.Icon,
		IsDefault: req.IsDefault,
	}
	if req.Balance != nil {
		b, err := decimal.NewFromString(*req.Balance)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid balance")
			return
		}
		upd.Balance = &b
	}
	acc, err := h.Accounts.Update(user.ID, c.Param("id"), upd)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Accounts.Delete(user.ID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	h.Cache.Invalidate(c, user.ID)
	util.Success(c, util.Response{"message": "account deleted"})
}
