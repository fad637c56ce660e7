// Package generator creates synthetic users, spending histories, and daily
// plans for seeding the budget engine. Generated histories carry the same
// temporal structure the pattern learner looks for, so a seeded database
// exercises the whole pipeline end to end.
package generator

import (
	"math"
	"time"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/temporal"
	"github.com/teniee/mita-budget-engine/internal/utils"
)

// spendingCategories and categoryWeights drive the weighted category pick.
// Weights approximate household budget shares rather than merchant counts.
var spendingCategories = []models.Category{
	models.CategoryGroceries,
	models.CategoryDining,
	models.CategoryTransport,
	models.CategoryEntertainment,
	models.CategoryUtilities,
	models.CategoryShopping,
	models.CategoryHealth,
	models.CategoryTravel,
	models.CategoryOther,
}

var categoryWeights = []int{
	25, // groceries
	20, // dining
	12, // transport
	10, // entertainment
	8,  // utilities
	12, // shopping
	6,  // health
	4,  // travel
	3,  // other
}

var merchantsByCategory = map[models.Category][]string{
	models.CategoryGroceries:     {"FreshMart", "GreenGrocer", "Corner Market", "Hypermarket 24"},
	models.CategoryDining:        {"Lunchbox Cafe", "Noodle House", "Taco Stand", "Brew & Bite"},
	models.CategoryTransport:     {"City Transit", "RideShare", "Gas & Go", "Metro Parking"},
	models.CategoryEntertainment: {"Cinema Plaza", "StreamFlix", "Arcade City", "Ticket Booth"},
	models.CategoryUtilities:     {"Power & Light Co", "CityWater", "NetWave ISP"},
	models.CategoryShopping:      {"MegaStore", "Thread & Co", "Gadget Hub", "HomeGoods"},
	models.CategoryHealth:        {"CarePharmacy", "City Clinic", "FitClub Gym"},
	models.CategoryTravel:        {"SkyBound Air", "RailLink", "Roadside Inn"},
	models.CategoryOther:         {"Kiosk", "Street Vendor", "Misc Services"},
}

// HistoryGenerator creates synthetic transaction histories with weekend,
// payday, month-end, and holiday structure baked in.
type HistoryGenerator struct {
	rng   *utils.Random
	rules temporal.CalendarRules
	cfg   config.SeedConfig
}

// NewHistoryGenerator creates a new history generator
func NewHistoryGenerator(rng *utils.Random, rules temporal.CalendarRules, cfg config.SeedConfig) *HistoryGenerator {
	return &HistoryGenerator{
		rng:   rng,
		rules: rules,
		cfg:   cfg,
	}
}

// ExpectedSpend returns the deterministic expected spend for one calendar
// day: the configured daily base scaled by every boost the date qualifies
// for. The plan generator uses the same curve so seeded plans and seeded
// spending agree on what a typical day looks like.
func (g *HistoryGenerator) ExpectedSpend(date time.Time) float64 {
	expected := g.cfg.BaseDaily

	if models.IsWeekend(date) {
		expected *= g.cfg.WeekendBoost
	}
	if g.isPayday(date.Day()) {
		expected *= g.cfg.PaydayBoost
	}
	if date.Day() > 25 {
		expected *= g.cfg.MonthEndBoost
	}
	if _, ok := g.rules.Holiday(date); ok {
		expected *= g.cfg.HolidayBoost
	}

	return expected
}

// Month generates transactions for every day of one calendar month.
// Each day's expected spend is split across one to three transactions
// with relative noise applied per transaction.
func (g *HistoryGenerator) Month(userID int64, month models.PlanMonth) []models.Transaction {
	days := month.Days()
	txns := make([]models.Transaction, 0, days*2)

	for day := 1; day <= days; day++ {
		date := month.DateOf(day)
		expected := g.ExpectedSpend(date)

		n := g.rng.IntRange(1, 3)
		for i := 0; i < n; i++ {
			amount := g.noisyAmount(expected / float64(n))
			category := g.pickCategory()
			txns = append(txns, models.Transaction{
				UserID:   userID,
				Date:     date,
				Amount:   amount,
				Category: category,
				Merchant: g.rng.PickString(merchantsByCategory[category]),
			})
		}
	}

	return txns
}

// History generates transactions for the given number of whole months
// ending with the month before `end`, oldest first.
func (g *HistoryGenerator) History(userID int64, end models.PlanMonth, months int) []models.Transaction {
	var txns []models.Transaction

	first := end.AddMonths(-months)
	for i := 0; i < months; i++ {
		month := first.AddMonths(i)
		txns = append(txns, g.Month(userID, month)...)
	}

	return txns
}

// noisyAmount applies the configured relative noise to a base amount.
// Amounts never go negative: a draw below zero collapses to a token spend.
func (g *HistoryGenerator) noisyAmount(base float64) float64 {
	amount := g.rng.NormalRange(base, base*g.cfg.Noise)
	if amount < 0 {
		amount = base * 0.05
	}
	return math.Round(amount*100) / 100
}

func (g *HistoryGenerator) pickCategory() models.Category {
	idx := g.rng.WeightedPick(categoryWeights)
	if idx < 0 {
		return models.CategoryOther
	}
	return spendingCategories[idx]
}

func (g *HistoryGenerator) isPayday(day int) bool {
	for _, d := range g.cfg.PaydayDays {
		if day == d {
			return true
		}
	}
	return false
}
