package service

import (
	"time"

	"github.com/sbo24/finance-flow/internal/models"

	"github.com/shopspring/decimal"
)

// dateOnly truncates t to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextDueDate rolls a due date forward by whole cycles until it is no longer
// before today. A date already on or after today is returned unchanged.
// Unknown cycles advance monthly so the loop always terminates.
func NextDueDate(due time.Time, cycle string, today time.Time) time.Time {
	day := dateOnly(today)
	for dateOnly(due).Before(day) {
		switch cycle {
		case models.CycleWeekly:
			due = due.AddDate(0, 0, 7)
		case models.CycleQuarterly:
			due = due.AddDate(0, 3, 0)
		case models.CycleYearly:
			due = due.AddDate(1, 0, 0)
		default: // monthly
			due = due.AddDate(0, 1, 0)
		}
	}
	return due
}

// MonthlyCost normalizes a recurring amount to its per-month equivalent.
func MonthlyCost(amount decimal.Decimal, cycle string) decimal.Decimal {
	switch cycle {
	case models.CycleWeekly:
		// 52 weeks over 12 months
		return amount.Mul(decimal.NewFromInt(52)).DivRound(decimal.NewFromInt(12), 2)
	case models.CycleQuarterly:
		return amount.DivRound(decimal.NewFromInt(3), 2)
	case models.CycleYearly:
		return amount.DivRound(decimal.NewFromInt(12), 2)
	default:
		return amount
	}
}
