package generator

import (
	"math"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/utils"
)

// PlanGenerator creates daily plans for the current month: flat daily
// limits with realistic spending recorded against past days. A configured
// fraction of past days overshoot their limit so seeded months produce
// both surplus and deficit rebalance scenarios.
type PlanGenerator struct {
	rng     *utils.Random
	history *HistoryGenerator
	cfg     config.SeedConfig
}

// NewPlanGenerator creates a new plan generator
func NewPlanGenerator(rng *utils.Random, history *HistoryGenerator, cfg config.SeedConfig) *PlanGenerator {
	return &PlanGenerator{
		rng:     rng,
		history: history,
		cfg:     cfg,
	}
}

// Plan generates a month's daily plan as of currentDay. Days before
// currentDay carry spent amounts; currentDay and later stay at zero.
func (g *PlanGenerator) Plan(month models.PlanMonth, currentDay int) []models.DailyPlanEntry {
	days := month.Days()
	limit := math.Round(g.cfg.BaseDaily*g.cfg.PlanCushion*100) / 100

	entries := make([]models.DailyPlanEntry, 0, days)
	for day := 1; day <= days; day++ {
		e := models.DailyPlanEntry{Day: day, Limit: limit}
		if day < currentDay {
			e.Spent = g.spentFor(month, day, limit)
		}
		entries = append(entries, e)
	}

	return entries
}

// spentFor draws a past day's spending. Most days land under the limit;
// overspend days land visibly above it so they register as over-limit
// rather than disappearing into noise.
func (g *PlanGenerator) spentFor(month models.PlanMonth, day int, limit float64) float64 {
	if g.rng.Probability(g.cfg.OverspendRate) {
		return math.Round(limit*g.rng.Float64Range(1.05, 1.35)*100) / 100
	}

	expected := g.history.ExpectedSpend(month.DateOf(day))
	spent := g.rng.NormalRange(expected, expected*g.cfg.Noise)
	if spent < 0 {
		spent = 0
	}
	if spent >= limit {
		spent = limit * 0.95
	}
	return math.Round(spent*100) / 100
}
