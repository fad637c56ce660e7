package temporal

import (
	"strings"
	"testing"
	"time"

	"github.com/teniee/mita-budget-engine/internal/config"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	return NewCalculator(testRules(t), config.DefaultConfig().Temporal)
}

func neutralPattern(t *testing.T) *SpendingPattern {
	t.Helper()
	return NeutralPattern(testRules(t))
}

func TestDailyBudgetNilPattern(t *testing.T) {
	c := newTestCalculator(t)
	date := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)

	res, err := c.DailyBudget(100, date, nil)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}

	if res.Multiplier != 1.0 {
		t.Errorf("Multiplier = %v, want 1.0", res.Multiplier)
	}
	if res.AdjustedDailyBudget != 100 {
		t.Errorf("AdjustedDailyBudget = %v, want 100", res.AdjustedDailyBudget)
	}
	if res.PrimaryReason != ReasonNoHistory {
		t.Errorf("PrimaryReason = %q, want %q", res.PrimaryReason, ReasonNoHistory)
	}
	if res.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", res.Confidence)
	}
	if len(res.ContributingFactors) != 0 {
		t.Errorf("ContributingFactors = %v, want none", res.ContributingFactors)
	}
	if len(res.FactorBreakdown) != 0 {
		t.Errorf("FactorBreakdown = %v, want empty", res.FactorBreakdown)
	}
}

func TestDailyBudgetNeutralLearnedPattern(t *testing.T) {
	p, err := newTestLearner(t).Learn(nil)
	if err != nil {
		t.Fatalf("Learn(nil) returned error: %v", err)
	}

	c := newTestCalculator(t)
	date := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)
	res, err := c.DailyBudget(80, date, p)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}

	if res.Multiplier != 1.0 {
		t.Errorf("Multiplier = %v, want 1.0", res.Multiplier)
	}
	if res.AdjustedDailyBudget != 80 {
		t.Errorf("AdjustedDailyBudget = %v, want 80", res.AdjustedDailyBudget)
	}
	if res.PrimaryReason != ReasonTypicalDay {
		t.Errorf("PrimaryReason = %q, want %q", res.PrimaryReason, ReasonTypicalDay)
	}
	// A pattern learned over zero samples is not the same as never
	// having learned: it reports its own zero confidence.
	if res.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", res.Confidence)
	}
}

func TestDailyBudgetClampBounds(t *testing.T) {
	c := newTestCalculator(t)
	saturday := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)

	high := neutralPattern(t)
	high.DayOfWeek[6] = 5.0
	high.WeekendEffect = 3.0

	res, err := c.DailyBudget(100, saturday, high)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if res.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v, want clamped 2.0", res.Multiplier)
	}
	if res.AdjustedDailyBudget != 200 {
		t.Errorf("AdjustedDailyBudget = %v, want 200", res.AdjustedDailyBudget)
	}
	// The breakdown keeps the raw factor values even after clamping.
	if res.FactorBreakdown[FactorDayOfWeek] != 5.0 {
		t.Errorf("FactorBreakdown[day_of_week] = %v, want raw 5.0", res.FactorBreakdown[FactorDayOfWeek])
	}
	if res.FactorBreakdown[FactorWeekend] != 3.0 {
		t.Errorf("FactorBreakdown[weekend] = %v, want raw 3.0", res.FactorBreakdown[FactorWeekend])
	}

	low := neutralPattern(t)
	low.DayOfWeek[6] = 0.1
	low.WeekendEffect = 0.2

	res, err = c.DailyBudget(100, saturday, low)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if res.Multiplier != 0.5 {
		t.Errorf("Multiplier = %v, want clamped 0.5", res.Multiplier)
	}
	if res.AdjustedDailyBudget != 50 {
		t.Errorf("AdjustedDailyBudget = %v, want 50", res.AdjustedDailyBudget)
	}
}

func TestDailyBudgetWeekendReason(t *testing.T) {
	c := newTestCalculator(t)

	p := neutralPattern(t)
	p.WeekendEffect = 1.3

	tests := []struct {
		name    string
		date    time.Time
		applied bool
	}{
		{"saturday", time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC), true},
		{"sunday", time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC), true},
		{"friday", time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.DailyBudget(100, tt.date, p)
			if err != nil {
				t.Fatalf("DailyBudget returned error: %v", err)
			}
			if tt.applied {
				if res.Multiplier != 1.3 {
					t.Errorf("Multiplier = %v, want 1.3", res.Multiplier)
				}
				if res.PrimaryReason != ReasonWeekend {
					t.Errorf("PrimaryReason = %q, want %q", res.PrimaryReason, ReasonWeekend)
				}
				return
			}
			if _, ok := res.FactorBreakdown[FactorWeekend]; ok {
				t.Error("weekend factor applied on a weekday")
			}
			if res.Multiplier != 1.0 {
				t.Errorf("Multiplier = %v, want 1.0", res.Multiplier)
			}
		})
	}
}

func TestDailyBudgetMonthEndConservation(t *testing.T) {
	c := newTestCalculator(t)
	// 2025-06-26 is a Thursday past the month-end threshold.
	lateJune := time.Date(2025, time.June, 26, 0, 0, 0, 0, time.UTC)

	conserving := neutralPattern(t)
	conserving.MonthEndEffect = 0.8

	res, err := c.DailyBudget(100, lateJune, conserving)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if res.Multiplier != 0.8 {
		t.Errorf("Multiplier = %v, want 0.8", res.Multiplier)
	}
	if res.PrimaryReason != ReasonMonthEndConserve {
		t.Errorf("PrimaryReason = %q, want %q", res.PrimaryReason, ReasonMonthEndConserve)
	}

	// A month-end effect above 1.0 still scales the budget but does not
	// claim the conservation reason.
	splurging := neutralPattern(t)
	splurging.MonthEndEffect = 1.2

	res, err = c.DailyBudget(100, lateJune, splurging)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if res.Multiplier != 1.2 {
		t.Errorf("Multiplier = %v, want 1.2", res.Multiplier)
	}
	if res.PrimaryReason != ReasonTypicalDay {
		t.Errorf("PrimaryReason = %q, want %q", res.PrimaryReason, ReasonTypicalDay)
	}

	// Before the threshold the effect is ignored entirely.
	midJune := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	res, err = c.DailyBudget(100, midJune, conserving)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if res.Multiplier != 1.0 {
		t.Errorf("Multiplier = %v, want 1.0 before month end", res.Multiplier)
	}
}

func TestDailyBudgetHolidayReason(t *testing.T) {
	c := newTestCalculator(t)
	// 2025-12-23 is a Tuesday inside the christmas window.
	date := time.Date(2025, time.December, 23, 0, 0, 0, 0, time.UTC)

	p := neutralPattern(t)
	p.Holiday["christmas_season"] = 1.4

	res, err := c.DailyBudget(100, date, p)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if res.Multiplier != 1.4 {
		t.Errorf("Multiplier = %v, want 1.4", res.Multiplier)
	}
	if res.PrimaryReason != ReasonHoliday {
		t.Errorf("PrimaryReason = %q, want %q", res.PrimaryReason, ReasonHoliday)
	}
	if res.FactorBreakdown[FactorHoliday] != 1.4 {
		t.Errorf("FactorBreakdown[holiday] = %v, want 1.4", res.FactorBreakdown[FactorHoliday])
	}

	found := false
	for _, f := range res.ContributingFactors {
		if strings.Contains(f, "christmas season") {
			found = true
		}
	}
	if !found {
		t.Errorf("ContributingFactors = %v, want a christmas season entry", res.ContributingFactors)
	}
}

func TestDailyBudgetSeasonalFactor(t *testing.T) {
	c := newTestCalculator(t)
	date := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)

	p := neutralPattern(t)
	p.Seasonal["summer"] = 1.2

	res, err := c.DailyBudget(100, date, p)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if res.Multiplier != 1.2 {
		t.Errorf("Multiplier = %v, want 1.2", res.Multiplier)
	}
	if res.FactorBreakdown[FactorSeasonal] != 1.2 {
		t.Errorf("FactorBreakdown[seasonal] = %v, want 1.2", res.FactorBreakdown[FactorSeasonal])
	}
	// Seasonal shifts inform the breakdown but never claim the headline.
	if res.PrimaryReason != ReasonTypicalDay {
		t.Errorf("PrimaryReason = %q, want %q", res.PrimaryReason, ReasonTypicalDay)
	}
}

func TestDailyBudgetPaydayWindow(t *testing.T) {
	c := newTestCalculator(t)

	p := neutralPattern(t)
	p.PaydayEffect = 1.25

	// 2025-06-16 falls inside the mid-month payday window.
	payday := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	res, err := c.DailyBudget(100, payday, p)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if res.Multiplier != 1.25 {
		t.Errorf("Multiplier = %v, want 1.25", res.Multiplier)
	}
	if res.AdjustedDailyBudget != 125 {
		t.Errorf("AdjustedDailyBudget = %v, want 125", res.AdjustedDailyBudget)
	}
	if res.FactorBreakdown[FactorPayday] != 1.25 {
		t.Errorf("FactorBreakdown[payday] = %v, want 1.25", res.FactorBreakdown[FactorPayday])
	}

	ordinary := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	res, err = c.DailyBudget(100, ordinary, p)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}
	if _, ok := res.FactorBreakdown[FactorPayday]; ok {
		t.Error("payday factor applied outside a payday window")
	}
	if res.Multiplier != 1.0 {
		t.Errorf("Multiplier = %v, want 1.0", res.Multiplier)
	}
}

func TestDailyBudgetFactorOrder(t *testing.T) {
	c := newTestCalculator(t)
	saturday := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)

	p := neutralPattern(t)
	p.DayOfWeek[6] = 1.5
	p.WeekendEffect = 1.3
	p.Seasonal["summer"] = 1.1

	res, err := c.DailyBudget(100, saturday, p)
	if err != nil {
		t.Fatalf("DailyBudget returned error: %v", err)
	}

	if len(res.ContributingFactors) != 3 {
		t.Fatalf("ContributingFactors = %v, want 3 entries", res.ContributingFactors)
	}
	wantOrder := []string{"Saturday", "weekend", "summer"}
	for i, needle := range wantOrder {
		if !strings.Contains(res.ContributingFactors[i], needle) {
			t.Errorf("ContributingFactors[%d] = %q, want mention of %q",
				i, res.ContributingFactors[i], needle)
		}
	}

	// 1.5 * 1.3 * 1.1 overruns the cap.
	if res.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v, want clamped 2.0", res.Multiplier)
	}
}

func TestDailyBudgetRejectsBadInput(t *testing.T) {
	c := newTestCalculator(t)
	p := neutralPattern(t)

	if _, err := c.DailyBudget(100, time.Time{}, p); err == nil {
		t.Error("DailyBudget accepted a zero date")
	}

	date := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	if _, err := c.DailyBudget(-5, date, p); err == nil {
		t.Error("DailyBudget accepted a negative base budget")
	}
}
