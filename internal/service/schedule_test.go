package service

import (
	"testing"
	"time"

	"github.com/sbo24/finance-flow/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDateRollforward(t *testing.T) {
	today := date(2026, time.March, 15)

	cases := []struct {
		name  string
		due   time.Time
		cycle string
		want  time.Time
	}{
		{"future date unchanged", date(2026, time.April, 1), models.CycleMonthly, date(2026, time.April, 1)},
		{"today unchanged", today, models.CycleMonthly, today},
		{"monthly single step", date(2026, time.February, 20), models.CycleMonthly, date(2026, time.March, 20)},
		{"monthly multiple steps", date(2025, time.November, 5), models.CycleMonthly, date(2026, time.April, 5)},
		{"weekly", date(2026, time.March, 2), models.CycleWeekly, date(2026, time.March, 16)},
		{"quarterly", date(2025, time.December, 1), models.CycleQuarterly, date(2026, time.June, 1)},
		{"yearly", date(2024, time.July, 4), models.CycleYearly, date(2026, time.July, 4)},
		{"unknown cycle advances monthly", date(2026, time.March, 1), "fortnightly", date(2026, time.April, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDueDate(tc.due, tc.cycle, today)
			if !got.Equal(tc.want) {
				t.Fatalf("NextDueDate(%s, %s) = %s, want %s",
					tc.due.Format("2006-01-02"), tc.cycle,
					got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}
}

// The rolled date is never before today, regardless of how stale the input.
func TestNextDueDateNeverInPast(t *testing.T) {
	today := date(2026, time.August, 31)
	for _, cycle := range []string{models.CycleWeekly, models.CycleMonthly, models.CycleQuarterly, models.CycleYearly} {
		for days := 1; days < 900; days += 53 {
			due := today.AddDate(0, 0, -days)
			got := NextDueDate(due, cycle, today)
			if got.Before(today) {
				t.Fatalf("cycle %s, %d days stale: got %s before today", cycle, days, got.Format("2006-01-02"))
			}
		}
	}
}

func TestMonthlyCost(t *testing.T) {
	cases := []struct {
		cycle  string
		amount string
		want   string
	}{
		{models.CycleMonthly, "12", "12"},
		{models.CycleYearly, "120", "10"},
		{models.CycleQuarterly, "30", "10"},
		{models.CycleWeekly, "12", "52"}, // 12 * 52 / 12
	}
	for _, tc := range cases {
		got := MonthlyCost(dec(t, tc.amount), tc.cycle)
		if !got.Equal(dec(t, tc.want)) {
			t.Errorf("MonthlyCost(%s, %s) = %s, want %s", tc.amount, tc.cycle, got, tc.want)
		}
	}
}
