package rebalance

import (
	"math"

	"github.com/teniee/mita-budget-engine/internal/config"
)

// OpportunityType says which direction a proposed budget move goes.
type OpportunityType string

const (
	IncreaseBudget OpportunityType = "increase_budget"
	DecreaseBudget OpportunityType = "decrease_budget"
)

// Opportunity is one proposed signed change to a future day's budget,
// before behavioral constraints are applied. Amount carries the sign of
// the move: positive for increases, negative for decreases.
type Opportunity struct {
	Day      int             `json:"day"`
	Type     OpportunityType `json:"type"`
	Amount   float64         `json:"amount"`
	Reason   string          `json:"reason"`
	Priority float64         `json:"priority"`
}

// Generator proposes per-day budget deltas from a calendar analysis.
type Generator struct {
	cfg config.PolicyConfig
}

// NewGenerator creates a generator with the given policy.
func NewGenerator(cfg config.PolicyConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Propose spreads the month-to-date surplus or deficit across the days
// after the analysis' current day, ordered by day ascending. Surpluses
// flow preferentially to weekends and Fridays; deficits cut every
// remaining day, hardest on weekends. Surplus shares are weighted by
// priority without renormalizing, so the proposed total lands below the
// raw surplus by the weighting factor; the gap stays in the month's
// slack on purpose rather than being forced onto low-priority days.
func (g *Generator) Propose(a *CalendarAnalysis) []Opportunity {
	if a == nil || math.Abs(a.CurrentSurplus) < g.cfg.ActionFloor {
		return nil
	}
	first := a.CurrentDay + 1
	last := a.Month.Days()
	if first > last {
		return nil
	}
	futureDays := last - first + 1

	opps := make([]Opportunity, 0, futureDays)
	if a.CurrentSurplus > 0 {
		share := a.CurrentSurplus / float64(futureDays)
		for day := first; day <= last; day++ {
			priority := g.cfg.WeekdayPriority
			reason := "spread leftover budget across remaining days"
			switch weekday := a.Month.WeekdayOf(day); {
			case weekday >= 6:
				priority = g.cfg.WeekendPriority
				reason = "extra weekend headroom from underspending"
			case weekday == 5:
				priority = g.cfg.FridayPriority
				reason = "friday headroom from underspending"
			}
			opps = append(opps, Opportunity{
				Day:      day,
				Type:     IncreaseBudget,
				Amount:   share * priority,
				Reason:   reason,
				Priority: priority,
			})
		}
		return opps
	}

	cut := -a.CurrentSurplus / float64(futureDays)
	for day := first; day <= last; day++ {
		amount := cut
		priority := g.cfg.DeficitPriority
		reason := "trim remaining days to recover overspending"
		if a.Month.WeekdayOf(day) >= 6 {
			amount *= g.cfg.DeficitWeekendBoost
			priority = g.cfg.DeficitWeekendPriority
			reason = "cut discretionary weekend spending to recover overspending"
		}
		opps = append(opps, Opportunity{
			Day:      day,
			Type:     DecreaseBudget,
			Amount:   -amount,
			Reason:   reason,
			Priority: priority,
		})
	}
	return opps
}
