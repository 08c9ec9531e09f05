package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardService derives the summary numbers shown on the dashboard and
// stores per-user widget preferences.
type DashboardService struct {
	db     *gorm.DB
	tx     *TransactionService
	budget *BudgetService
	subs   *SubscriptionService
	fixed  *FixedExpenseService
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{
		db:     db,
		tx:     NewTransactionService(db),
		budget: NewBudgetService(db),
		subs:   NewSubscriptionService(db),
		fixed:  NewFixedExpenseService(db),
	}
}

// DefaultDashboardSettings fills every field deterministically; stored rows
// missing fields get these values instead of relying on implicit merging.
func DefaultDashboardSettings(userID string) models.DashboardSettings {
	widgets := []string{"balance", "cashflow", "budgets", "goals", "subscriptions", "recent"}
	sizes := make(map[string]string, len(widgets))
	for _, w := range widgets {
		sizes[w] = "medium"
	}
	return models.DashboardSettings{
		UserID:         userID,
		VisibleWidgets: widgets,
		WidgetOrder:    append([]string(nil), widgets...),
		WidgetSizes:    sizes,
	}
}

// Settings loads the user's dashboard settings, filling defaults for a user
// who has never saved any and for fields absent from the stored row.
func (s *DashboardService) Settings(userID string) (*models.DashboardSettings, error) {
	var ds models.DashboardSettings
	err := s.db.Where("user_id = ?", userID).First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := DefaultDashboardSettings(userID)
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dashboard settings: %w", err)
	}
	def := DefaultDashboardSettings(userID)
	if len(ds.VisibleWidgets) == 0 {
		ds.VisibleWidgets = def.VisibleWidgets
	}
	if len(ds.WidgetOrder) == 0 {
		ds.WidgetOrder = def.WidgetOrder
	}
	if len(ds.WidgetSizes) == 0 {
		ds.WidgetSizes = def.WidgetSizes
	}
	return &ds, nil
}

// SaveSettings upserts the user's dashboard settings.
func (s *DashboardService) SaveSettings(userID string, in models.DashboardSettings) (*models.DashboardSettings, error) {
	var ds models.DashboardSettings
	err := s.db.Where("user_id = ?", userID).First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ds = models.DashboardSettings{UserID: userID}
	} else if err != nil {
		return nil, fmt.Errorf("get dashboard settings: %w", err)
	}
	ds.VisibleWidgets = in.VisibleWidgets
	ds.WidgetOrder = in.WidgetOrder
	ds.WidgetSizes = in.WidgetSizes
	ds.DefaultAccountFilter = in.DefaultAccountFilter
	if err := s.db.Save(&ds).Error; err != nil {
		return nil, fmt.Errorf("save dashboard settings: %w", err)
	}
	return &ds, nil
}

// DailyCashflow is one day of the month's income/expense series.
type DailyCashflow struct {
	Date     string          `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// Overview is the aggregated dashboard payload for one month.
type Overview struct {
	Month            string                     `json:"month"`
	TotalBalance     decimal.Decimal            `json:"total_balance"`
	AccountCount     int                        `json:"account_count"`
	TotalIncome      decimal.Decimal            `json:"total_income"`
	TotalExpenses    decimal.Decimal            `json:"total_expenses"`
	Net              decimal.Decimal            `json:"net"`
	ByCategory       map[string]decimal.Decimal `json:"by_category"`
	DailyCashflow    []DailyCashflow            `json:"daily_cashflow"`
	BudgetLimit      decimal.Decimal            `json:"budget_limit"`
	BudgetSpent      decimal.Decimal            `json:"budget_spent"`
	SavingsTarget    decimal.Decimal            `json:"savings_target"`
	SavingsCurrent   decimal.Decimal            `json:"savings_current"`
	RecurringMonthly decimal.Decimal            `json:"recurring_monthly"`
	HealthScore      int                        `json:"health_score"`
}

// Overview aggregates account balances, the month's ledger summary, budget
// adherence, savings progress, recurring costs and a 0-100 health score.
func (s *DashboardService) Overview(userID string, month time.Time) (*Overview, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, 0)

	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("overview accounts: %w", err)
	}
	totalBalance := decimal.Zero
	for _, a := range accounts {
		totalBalance = totalBalance.Add(a.Balance)
	}

	sum, err := s.tx.SummaryWindow(userID, start, end, "")
	if err != nil {
		return nil, err
	}

	daily, err := s.dailyCashflow(userID, start, end)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budget.RefreshSpent(userID, time.Now())
	if err != nil {
		return nil, err
	}
	budgetLimit, budgetSpent := decimal.Zero, decimal.Zero
	for _, b := range budgets {
		budgetLimit = budgetLimit.Add(b.Amount)
		budgetSpent = budgetSpent.Add(b.Spent)
	}

	var goals []models.SavingsGoal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("overview goals: %w", err)
	}
	savingsTarget, savingsCurrent := decimal.Zero, decimal.Zero
	for _, g := range goals {
		savingsTarget = savingsTarget.Add(g.TargetAmount)
		savingsCurrent = savingsCurrent.Add(g.CurrentAmount)
	}

	subTotal, err := s.subs.MonthlyTotal(userID)
	if err != nil {
		return nil, err
	}
	fixedTotal, err := s.fixed.MonthlyTotal(userID)
	if err != nil {
		return nil, err
	}

	ov := &Overview{
		Month:            start.Format("2006-01"),
		TotalBalance:     totalBalance,
		AccountCount:     len(accounts),
		TotalIncome:      sum.TotalIncome,
		TotalExpenses:    sum.TotalExpenses,
		Net:              sum.TotalIncome.Sub(sum.TotalExpenses),
		ByCategory:       sum.ByCategory,
		DailyCashflow:    daily,
		BudgetLimit:      budgetLimit,
		BudgetSpent:      budgetSpent,
		SavingsTarget:    savingsTarget,
		SavingsCurrent:   savingsCurrent,
		RecurringMonthly: subTotal.Add(fixedTotal),
	}
	ov.HealthScore = healthScore(ov)
	return ov, nil
}

func (s *DashboardService) dailyCashflow(userID string, start, end time.Time) ([]DailyCashflow, error) {
	var txs []models.Transaction
	err := s.db.Where("user_id = ? AND date >= ? AND date < ? AND type <> ?",
		userID, start, end, models.TxTransfer).
		Order("date ASC").Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("daily cashflow: %w", err)
	}
	byDay := make(map[string]*DailyCashflow)
	order := make([]string, 0)
	for i := range txs {
		t := &txs[i]
		key := t.Date.Format("2006-01-02")
		day, ok := byDay[key]
		if !ok {
			day = &DailyCashflow{Date: key}
			byDay[key] = day
			order = append(order, key)
		}
		switch t.Type {
		case models.TxIncome:
			day.Income = day.Income.Add(t.Amount)
		case models.TxExpense:
			day.Expenses = day.Expenses.Add(t.Amount)
		}
	}
	out := make([]DailyCashflow, 0, len(order))
	for _, key := range order {
		d := byDay[key]
		d.Net = d.Income.Sub(d.Expenses)
		out = append(out, *d)
	}
	return out, nil
}

// healthScore compresses the month into a 0-100 score: base 50, up to ±30
// for the savings rate, ±10 for budget adherence, up to +10 for goal
// progress.
func healthScore(ov *Overview) int {
	score := 50
	if ov.TotalIncome.IsPositive() {
		rate := ov.TotalIncome.Sub(ov.TotalExpenses).Div(ov.TotalIncome)
		pts := rate.Mul(decimal.NewFromInt(30)).Round(0).IntPart()
		if pts > 30 {
			pts = 30
		}
		if pts < -30 {
			pts = -30
		}
		score += int(pts)
	}
	if ov.BudgetLimit.IsPositive() {
		if ov.BudgetSpent.LessThanOrEqual(ov.BudgetLimit) {
			score += 10
		} else {
			score -= 10
		}
	}
	if ov.SavingsTarget.IsPositive() {
		progress := ov.SavingsCurrent.Div(ov.SavingsTarget)
		pts := progress.Mul(decimal.NewFromInt(10)).Round(0).IntPart()
		if pts > 10 {
			pts = 10
		}
		if pts < 0 {
			pts = 0
		}
		score += int(pts)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
