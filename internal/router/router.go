package router

import (
	"net/http"
	"time"

	"github.com/sbo24/finance-flow/internal/cache"
	"github.com/sbo24/finance-flow/internal/config"
	"github.com/sbo24/finance-flow/internal/handler"
	"github.com/sbo24/finance-flow/internal/middleware"
	"github.com/sbo24/finance-flow/internal/service"
	"github.com/sbo24/finance-flow/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires every handler.
func SetupRouter(cfg *config.Config, db *gorm.DB, store *cache.Cache) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, util.Response{"status": "ok"})
	})

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	protected.GET("/me", handler.GetMe)
	protected.PUT("/profile", handler.UpdateProfile(db))
	protected.PUT("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	dashCache := handler.NewDashboardCache(store)

	accountHandler := handler.NewAccountHandler(service.NewAccountService(db), dashCache)
	protected.GET("/accounts", accountHandler.List)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts/:id", accountHandler.Get)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)

	txHandler := handler.NewTransactionHandler(service.NewTransactionService(db), dashCache)
	protected.GET("/transactions", txHandler.List)
	protected.POST("/transactions", txHandler.Create)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)
	protected.GET("/transactions/summary", txHandler.Summary)
	protected.GET("/transactions/accounts-summary", txHandler.AccountsSummary)

	budgetHandler := handler.NewBudgetHandler(service.NewBudgetService(db), dashCache)
	protected.GET("/budgets", budgetHandler.List)
	protected.POST("/budgets", budgetHandler.Create)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)
	protected.POST("/budgets/refresh", budgetHandler.Refresh)

	savingsHandler := handler.NewSavingsHandler(service.NewSavingsService(db), dashCache)
	protected.GET("/goals", savingsHandler.List)
	protected.POST("/goals", savingsHandler.Create)
	protected.GET("/goals/:id", savingsHandler.Get)
	protected.PUT("/goals/:id", savingsHandler.Update)
	protected.DELETE("/goals/:id", savingsHandler.Delete)
	protected.POST("/goals/:id/contributions", savingsHandler.Contribute)
	protected.POST("/goals/:id/withdraw", savingsHandler.Withdraw)

	subHandler := handler.NewSubscriptionHandler(service.NewSubscriptionService(db), dashCache, cfg.App.UpcomingDays)
	protected.GET("/subscriptions", subHandler.List)
	protected.POST("/subscriptions", subHandler.Create)
	protected.PUT("/subscriptions/:id", subHandler.Update)
	protected.DELETE("/subscriptions/:id", subHandler.Delete)
	protected.GET("/subscriptions/upcoming", subHandler.Upcoming)

	fixedHandler := handler.NewFixedExpenseHandler(service.NewFixedExpenseService(db), dashCache, cfg.App.UpcomingDays)
	protected.GET("/fixed-expenses", fixedHandler.List)
	protected.POST("/fixed-expenses", fixedHandler.Create)
	protected.PUT("/fixed-expenses/:id", fixedHandler.Update)
	protected.DELETE("/fixed-expenses/:id", fixedHandler.Delete)
	protected.GET("/fixed-expenses/upcoming", fixedHandler.Upcoming)

	dashboardHandler := handler.NewDashboardHandler(service.NewDashboardService(db), dashCache)
	protected.GET("/dashboard/settings", dashboardHandler.GetSettings)
	protected.PUT("/dashboard/settings", dashboardHandler.SaveSettings)
	protected.GET("/dashboard/overview", dashboardHandler.Overview)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/transactions/csv", exportHandler.TransactionsCSV)
	protected.GET("/export/transactions/xlsx", exportHandler.TransactionsXLSX)
	protected.GET("/export/subscriptions/csv", exportHandler.SubscriptionsCSV)
	protected.GET("/export/fixed-expenses/csv", exportHandler.FixedExpensesCSV)

	return r
}
