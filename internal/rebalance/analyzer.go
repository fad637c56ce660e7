// Package rebalance summarizes a month-to-date daily plan into aggregate
// spending signals and proposes bounded budget moves across the days that
// remain. Every component is a pure transform over in-memory inputs: no
// I/O, no shared state, safe to run concurrently for any number of users.
package rebalance

import (
	"fmt"
	"math"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/models"
)

// CalendarAnalysis describes how a month is tracking against its plan as
// of a given day. Only days strictly before CurrentDay count as
// completed; the current day is still in flight.
type CalendarAnalysis struct {
	Month      models.PlanMonth `json:"month"`
	CurrentDay int              `json:"current_day"`

	TotalSpent    float64 `json:"total_spent"`
	TotalBudgeted float64 `json:"total_budgeted"`

	// SpendingRatio is spent over budgeted across analyzed days, 0.0
	// when nothing was budgeted.
	SpendingRatio float64 `json:"spending_ratio"`

	DaysAnalyzed   int `json:"days_analyzed"`
	RemainingDays  int `json:"remaining_days"`
	OverspentDays  int `json:"overspent_days"`
	UnderspentDays int `json:"underspent_days"`

	// BudgetAdherenceRate is the share of analyzed days that stayed at
	// or under their limit, 1.0 while no days have completed yet.
	BudgetAdherenceRate float64 `json:"budget_adherence_rate"`

	// CurrentSurplus is budgeted minus spent over analyzed days.
	// Positive means unspent budget is available to move forward,
	// negative means the month is running a deficit.
	CurrentSurplus float64 `json:"current_surplus"`

	NeedsRedistribution bool `json:"needs_redistribution"`
}

// Analyzer computes calendar analyses under one policy.
type Analyzer struct {
	cfg config.PolicyConfig
}

// NewAnalyzer creates an analyzer with the given policy thresholds.
func NewAnalyzer(cfg config.PolicyConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze summarizes the plan entries for a month as of currentDay. Days
// without an entry contribute nothing and are not counted as analyzed.
// Entries failing validation are integrity violations from upstream and
// reported as errors rather than defaulted away.
func (a *Analyzer) Analyze(entries []models.DailyPlanEntry, month models.PlanMonth, currentDay int) (*CalendarAnalysis, error) {
	days := month.Days()
	if currentDay < 1 || currentDay > days {
		return nil, fmt.Errorf("analyze %s: current day %d outside 1..%d", month, currentDay, days)
	}

	byDay := make(map[int]models.DailyPlanEntry, len(entries))
	for _, e := range entries {
		if err := e.Validate(days); err != nil {
			return nil, fmt.Errorf("analyze %s: %w", month, err)
		}
		byDay[e.Day] = e
	}

	res := &CalendarAnalysis{
		Month:               month,
		CurrentDay:          currentDay,
		RemainingDays:       days - currentDay,
		BudgetAdherenceRate: 1.0,
	}

	// Walk days in calendar order so float accumulation never depends
	// on input ordering.
	for day := 1; day < currentDay; day++ {
		e, ok := byDay[day]
		if !ok {
			continue
		}
		res.DaysAnalyzed++
		res.TotalSpent += e.Spent
		res.TotalBudgeted += e.Limit
		if e.Spent > e.Limit {
			res.OverspentDays++
		}
		if e.Spent < a.cfg.UnderspendRatio*e.Limit {
			res.UnderspentDays++
		}
	}

	if res.TotalBudgeted > 0 {
		res.SpendingRatio = res.TotalSpent / res.TotalBudgeted
	}
	if res.DaysAnalyzed > 0 {
		res.BudgetAdherenceRate = float64(res.DaysAnalyzed-res.OverspentDays) / float64(res.DaysAnalyzed)
	}
	res.CurrentSurplus = res.TotalBudgeted - res.TotalSpent
	res.NeedsRedistribution = math.Abs(res.CurrentSurplus) > a.cfg.DetectThreshold
	return res, nil
}
