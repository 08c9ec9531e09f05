package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sbo24/finance-flow/internal/cache"
	"github.com/sbo24/finance-flow/internal/models"
	"github.com/sbo24/finance-flow/internal/service"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-gonic/gin"
)

// overviewTTL bounds staleness for months other than the one being written
// to; the current month's key is dropped explicitly on every ledger write.
const overviewTTL = 60 * time.Second

// DashboardCache caches the computed overview in Redis and knows which key
// to drop when a write changes the numbers behind it.
type DashboardCache struct {
	cache *cache.Cache
}

func NewDashboardCache(c *cache.Cache) *DashboardCache {
	return &DashboardCache{cache: c}
}

func overviewKey(userID string, month time.Time) string {
	return fmt.Sprintf("dashboard:%s:%s", userID, month.Format("2006-01"))
}

// Invalidate drops the current month's overview. Writes dated into other
// months are covered by the short TTL instead.
func (d *DashboardCache) Invalidate(c *gin.Context, userID string) {
	if d == nil {
		return
	}
	d.cache.Delete(c.Request.Context(), overviewKey(userID, time.Now()))
}

// DashboardHandler serves widget settings and the aggregated overview.
type DashboardHandler struct {
	Dashboard *service.DashboardService
	Cache     *DashboardCache
}

func NewDashboardHandler(dashboard *service.DashboardService, cache *DashboardCache) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard, Cache: cache}
}

func (h *DashboardHandler) GetSettings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	settings, err := h.Dashboard.Settings(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"settings": settings})
}

type dashboardSettingsReq struct {
	VisibleWidgets       []string          `json:"visible_widgets"`
	WidgetOrder          []string          `json:"widget_order"`
	WidgetSizes          map[string]string `json:"widget_sizes"`
	DefaultAccountFilter string            `json:"default_account_filter"`
}

func (h *DashboardHandler) SaveSettings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dashboardSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	settings, err := h.Dashboard.SaveSettings(user.ID, models.DashboardSettings{
		VisibleWidgets:       req.VisibleWidgets,
		WidgetOrder:          req.WidgetOrder,
		WidgetSizes:          req.WidgetSizes,
		DefaultAccountFilter: req.DefaultAccountFilter,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"settings": settings})
}

// Overview returns the dashboard numbers for ?month=YYYY-MM (default: the
// current month), read through the cache.
func (h *DashboardHandler) Overview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	month := time.Now()
	if raw := c.Query("month"); raw != "" {
		m, err := time.Parse("2006-01", raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
			return
		}
		month = m
	}

	key := overviewKey(user.ID, month)
	if cached, hit := h.Cache.cache.Get(c.Request.Context(), key); hit {
		var ov service.Overview
		if err := json.Unmarshal([]byte(cached), &ov); err == nil {
			util.Success(c, util.Response{"overview": &ov})
			return
		}
	}

	ov, err := h.Dashboard.Overview(user.ID, month)
	if err != nil {
		serviceError(c, err)
		return
	}

	if payload, err := json.Marshal(ov); err == nil {
		h.Cache.cache.Set(c.Request.Context(), key, string(payload), overviewTTL)
	}
	util.Success(c, util.Response{"overview": ov})
}
