package generator

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/data"
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/temporal"
	"github.com/teniee/mita-budget-engine/internal/utils"
)

var june2025 = models.PlanMonth{Year: 2025, Month: time.June}

func testRules(t *testing.T) *data.Calendar {
	t.Helper()
	rules, err := data.Default()
	if err != nil {
		t.Fatalf("loading calendar rules: %v", err)
	}
	return rules
}

func testSeedConfig() config.SeedConfig {
	return config.SeedConfig{
		Seed:          42,
		Users:         5,
		Months:        3,
		BaseDaily:     40,
		WeekendBoost:  1.5,
		PaydayBoost:   1.2,
		MonthEndBoost: 0.9,
		HolidayBoost:  1.6,
		PaydayDays:    []int{1, 15},
		Noise:         0.2,
		OverspendRate: 0.25,
		PlanCushion:   1.1,
	}
}

func TestExpectedSpendBoosts(t *testing.T) {
	cfg := testSeedConfig()
	g := NewHistoryGenerator(utils.NewRandom(1), testRules(t), cfg)

	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		date time.Time
		want float64
	}{
		{"plain weekday", date(2025, time.July, 9), 40},
		{"saturday", date(2025, time.July, 5), 40 * 1.5},
		{"payday tuesday", date(2025, time.July, 15), 40 * 1.2},
		{"month-end monday", date(2025, time.July, 28), 40 * 0.9},
		{"holiday window", date(2025, time.December, 22), 40 * 1.6},
		{"weekend month-end holiday", date(2025, time.December, 27), 40 * 1.5 * 0.9 * 1.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.ExpectedSpend(tt.date)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ExpectedSpend(%s) = %.4f, want %.4f", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestMonthCoversEveryDay(t *testing.T) {
	g := NewHistoryGenerator(utils.NewRandom(7), testRules(t), testSeedConfig())

	txns := g.Month(12, june2025)

	seen := make(map[int]int)
	for _, txn := range txns {
		if err := txn.Validate(); err != nil {
			t.Fatalf("generated invalid transaction: %v", err)
		}
		if txn.UserID != 12 {
			t.Errorf("transaction has user %d, want 12", txn.UserID)
		}
		if txn.Date.Month() != time.June || txn.Date.Year() != 2025 {
			t.Errorf("transaction dated %s outside June 2025", txn.Date.Format("2006-01-02"))
		}
		if txn.Merchant == "" {
			t.Error("transaction has no merchant")
		}
		if _, ok := merchantsByCategory[txn.Category]; !ok {
			t.Errorf("unknown category %q", txn.Category)
		}
		seen[txn.Date.Day()]++
	}

	for day := 1; day <= 30; day++ {
		n := seen[day]
		if n < 1 || n > 3 {
			t.Errorf("day %d has %d transactions, want 1..3", day, n)
		}
	}
}

func TestHistorySpansWholeMonthsBeforeEnd(t *testing.T) {
	g := NewHistoryGenerator(utils.NewRandom(3), testRules(t), testSeedConfig())

	txns := g.History(1, june2025, 3)
	if len(txns) == 0 {
		t.Fatal("no history generated")
	}

	first := txns[0].Date
	last := txns[len(txns)-1].Date
	if first.Year() != 2025 || first.Month() != time.March || first.Day() != 1 {
		t.Errorf("history starts %s, want 2025-03-01", first.Format("2006-01-02"))
	}
	if last.Year() != 2025 || last.Month() != time.May || last.Day() != 31 {
		t.Errorf("history ends %s, want 2025-05-31", last.Format("2006-01-02"))
	}

	for _, txn := range txns {
		if !txn.Date.Before(june2025.DateOf(1)) {
			t.Fatalf("history leaks into the target month: %s", txn.Date.Format("2006-01-02"))
		}
	}
}

func TestHistoryDeterministicWithSameSeed(t *testing.T) {
	rules := testRules(t)
	cfg := testSeedConfig()

	a := NewHistoryGenerator(utils.NewRandom(99), rules, cfg).History(1, june2025, 2)
	b := NewHistoryGenerator(utils.NewRandom(99), rules, cfg).History(1, june2025, 2)

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different histories")
	}

	c := NewHistoryGenerator(utils.NewRandom(100), rules, cfg).History(1, june2025, 2)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical histories")
	}
}

func TestPlanSplitsPastAndFutureDays(t *testing.T) {
	cfg := testSeedConfig()
	rng := utils.NewRandom(5)
	history := NewHistoryGenerator(rng, testRules(t), cfg)
	g := NewPlanGenerator(rng, history, cfg)

	entries := g.Plan(june2025, 10)
	if len(entries) != 30 {
		t.Fatalf("got %d entries, want 30", len(entries))
	}

	wantLimit := 44.0 // 40 * 1.1
	for i, e := range entries {
		if err := e.Validate(30); err != nil {
			t.Fatalf("entry %d invalid: %v", i, err)
		}
		if e.Day != i+1 {
			t.Errorf("entry %d has day %d", i, e.Day)
		}
		if e.Limit != wantLimit {
			t.Errorf("day %d limit = %.2f, want %.2f", e.Day, e.Limit, wantLimit)
		}
		if e.Day >= 10 && e.Spent != 0 {
			t.Errorf("future day %d has spent %.2f", e.Day, e.Spent)
		}
	}
}

func TestPlanOverspendRate(t *testing.T) {
	rules := testRules(t)

	t.Run("always overspend", func(t *testing.T) {
		cfg := testSeedConfig()
		cfg.OverspendRate = 1.0
		rng := utils.NewRandom(11)
		g := NewPlanGenerator(rng, NewHistoryGenerator(rng, rules, cfg), cfg)

		for _, e := range g.Plan(june2025, 20) {
			if e.Day < 20 && e.Spent <= e.Limit {
				t.Errorf("day %d spent %.2f does not exceed limit %.2f", e.Day, e.Spent, e.Limit)
			}
		}
	})

	t.Run("never overspend", func(t *testing.T) {
		cfg := testSeedConfig()
		cfg.OverspendRate = 0
		rng := utils.NewRandom(11)
		g := NewPlanGenerator(rng, NewHistoryGenerator(rng, rules, cfg), cfg)

		for _, e := range g.Plan(june2025, 20) {
			if e.Day < 20 && e.Spent >= e.Limit {
				t.Errorf("day %d spent %.2f reaches limit %.2f", e.Day, e.Spent, e.Limit)
			}
		}
	})
}

func TestProfileDistributions(t *testing.T) {
	g := NewProfileGenerator(utils.NewRandom(17))

	const n = 2000
	tiersSeen := make(map[models.IncomeTier]int)
	withoutBehavior := 0

	for i := 0; i < n; i++ {
		tier := g.Tier()
		if !tier.Valid() {
			t.Fatalf("generated invalid tier %q", tier)
		}
		tiersSeen[tier]++

		behavior := g.Behavior()
		if behavior == nil {
			withoutBehavior++
			continue
		}
		switch behavior.RiskTolerance {
		case models.RiskLow, models.RiskModerate, models.RiskHigh:
		default:
			t.Fatalf("generated invalid risk tolerance %q", behavior.RiskTolerance)
		}
		switch behavior.SpendingPersonality {
		case models.PersonalitySaver, models.PersonalityBalanced, models.PersonalitySpender:
		default:
			t.Fatalf("generated invalid personality %q", behavior.SpendingPersonality)
		}
		if behavior.Impulsivity < 0 || behavior.Impulsivity >= 1 {
			t.Fatalf("impulsivity %.4f outside [0,1)", behavior.Impulsivity)
		}
	}

	if len(tiersSeen) != 5 {
		t.Errorf("saw %d tiers in %d draws, want all 5: %v", len(tiersSeen), n, tiersSeen)
	}

	// Roughly 20% skip the survey; allow wide sampling slack
	if withoutBehavior < n/10 || withoutBehavior > n*3/10 {
		t.Errorf("%d of %d profiles lack behavior, want about %d", withoutBehavior, n, n/5)
	}
}

// TestLearnerRecoversSeededWeekendBoost drives generated history through the
// pattern learner and checks the boost baked into the data comes back out.
func TestLearnerRecoversSeededWeekendBoost(t *testing.T) {
	rules := testRules(t)

	cfg := testSeedConfig()
	cfg.BaseDaily = 50
	cfg.WeekendBoost = 1.6
	cfg.PaydayBoost = 1.0
	cfg.MonthEndBoost = 1.0
	cfg.HolidayBoost = 1.0
	cfg.PaydayDays = nil
	cfg.Noise = 0.05

	g := NewHistoryGenerator(utils.NewRandom(2025), rules, cfg)
	txns := g.History(1, june2025, 6)

	learner := temporal.NewLearner(rules, config.DefaultConfig().Temporal)
	pattern, err := learner.Learn(txns)
	if err != nil {
		t.Fatalf("learning generated history: %v", err)
	}

	if pattern.WeekendEffect < 1.25 {
		t.Errorf("weekend effect = %.3f, want well above 1 for weekend-boosted data", pattern.WeekendEffect)
	}
	if m := pattern.DayOfWeekMultiplier(6); m < 1.1 {
		t.Errorf("saturday multiplier = %.3f, want above 1.1", m)
	}
	if m := pattern.DayOfWeekMultiplier(3); m > 0.97 {
		t.Errorf("wednesday multiplier = %.3f, want below 0.97", m)
	}
	if pattern.Confidence != 0.95 {
		t.Errorf("confidence = %.2f, want 0.95 for six months of history", pattern.Confidence)
	}
}
