package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teniee/mita-budget-engine/internal/advice"
	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/data"
	"github.com/teniee/mita-budget-engine/internal/database"
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/temporal"
)

var june2025 = models.PlanMonth{Year: 2025, Month: time.June}

// fakeStore is an in-memory Store with the same skip semantics as the
// real ApplyPlanDeltas.
type fakeStore struct {
	mu       sync.Mutex
	profiles map[int64]*models.UserProfile
	txns     map[int64][]models.Transaction
	plans    map[int64]map[string][]models.DailyPlanEntry

	historyReads atomic.Int64
	batches      int
	logged       []database.PlanDelta
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[int64]*models.UserProfile),
		txns:     make(map[int64][]models.Transaction),
		plans:    make(map[int64]map[string][]models.DailyPlanEntry),
	}
}

func (s *fakeStore) addUser(id int64, tier models.IncomeTier, behavior *models.BehavioralProfile) {
	s.profiles[id] = &models.UserProfile{UserID: id, Tier: tier, Behavior: behavior}
}

func (s *fakeStore) setPlan(id int64, month models.PlanMonth, entries []models.DailyPlanEntry) {
	if s.plans[id] == nil {
		s.plans[id] = make(map[string][]models.DailyPlanEntry)
	}
	s.plans[id][month.String()] = entries
}

func (s *fakeStore) GetUserProfile(_ context.Context, userID int64) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID], nil
}

func (s *fakeStore) ListUserIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id := range s.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeStore) ListTransactions(_ context.Context, userID int64, from, to time.Time) ([]models.Transaction, error) {
	s.historyReads.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, t := range s.txns[userID] {
		if !t.Date.Before(from) && !t.Date.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) MonthPlan(_ context.Context, userID int64, month models.PlanMonth) ([]models.DailyPlanEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.plans[userID][month.String()]
	out := make([]models.DailyPlanEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *fakeStore) ApplyPlanDeltas(_ context.Context, userID int64, month models.PlanMonth, deltas []database.PlanDelta) (*database.RebalanceReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches++
	receipt := &database.RebalanceReceipt{BatchID: fmt.Sprintf("batch-%d", s.batches)}

	entries := s.plans[userID][month.String()]
	for _, d := range deltas {
		idx := -1
		for i, e := range entries {
			if e.Day == d.Day {
				idx = i
				break
			}
		}
		if idx < 0 || entries[idx].Limit+d.Amount < 0 {
			receipt.Skipped++
			continue
		}
		entries[idx].Limit += d.Amount
		s.logged = append(s.logged, d)
		receipt.Applied++
		receipt.TotalShifted += d.Amount
	}
	return receipt, nil
}

func newTestPlanner(t *testing.T, store Store) *Planner {
	t.Helper()
	rules, err := data.Default()
	if err != nil {
		t.Fatalf("loading calendar rules: %v", err)
	}
	cache, err := NewPatternCache(config.DefaultConfig().Cache)
	if err != nil {
		t.Fatalf("creating cache: %v", err)
	}
	t.Cleanup(cache.Close)
	return NewPlanner(store, cache, rules, config.DefaultConfig())
}

// mayHistory fills May 2025 with steady spending so a pattern exists.
func mayHistory(userID int64) []models.Transaction {
	var txns []models.Transaction
	for day := 1; day <= 31; day++ {
		txns = append(txns, models.Transaction{
			UserID:   userID,
			Date:     time.Date(2025, time.May, day, 0, 0, 0, 0, time.UTC),
			Amount:   40,
			Category: models.CategoryGroceries,
		})
	}
	return txns
}

// surplusPlan builds a June plan: 70/day limits with 40 spent on each of
// the first ten days, leaving a 300 surplus at day 11.
func surplusPlan() []models.DailyPlanEntry {
	entries := make([]models.DailyPlanEntry, 0, 30)
	for day := 1; day <= 30; day++ {
		e := models.DailyPlanEntry{Day: day, Limit: 70}
		if day <= 10 {
			e.Spent = 40
		}
		entries = append(entries, e)
	}
	return entries
}

func TestPatternCachesAfterFirstLearn(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)
	store.txns[1] = mayHistory(1)
	p := newTestPlanner(t, store)

	first, err := p.Pattern(context.Background(), 1, june2025)
	if err != nil {
		t.Fatalf("first Pattern: %v", err)
	}
	if first == nil {
		t.Fatal("expected a learned pattern, got nil")
	}

	second, err := p.Pattern(context.Background(), 1, june2025)
	if err != nil {
		t.Fatalf("second Pattern: %v", err)
	}
	if second != first {
		t.Error("second call did not return the cached pattern")
	}
	if got := store.historyReads.Load(); got != 1 {
		t.Errorf("history read %d times, want 1", got)
	}
}

func TestPatternNilWithoutHistory(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)
	p := newTestPlanner(t, store)

	pattern, err := p.Pattern(context.Background(), 1, june2025)
	if err != nil {
		t.Fatalf("Pattern: %v", err)
	}
	if pattern != nil {
		t.Errorf("expected nil pattern for empty history, got %+v", pattern)
	}
}

func TestDailyBudgetFallsBackWithoutHistory(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)
	p := newTestPlanner(t, store)

	res, err := p.DailyBudget(context.Background(), 1, june2025.DateOf(14), 100)
	if err != nil {
		t.Fatalf("DailyBudget: %v", err)
	}
	if res.Multiplier != 1.0 {
		t.Errorf("multiplier = %v, want 1.0", res.Multiplier)
	}
	if res.PrimaryReason != temporal.ReasonNoHistory {
		t.Errorf("reason = %q, want %q", res.PrimaryReason, temporal.ReasonNoHistory)
	}
	if res.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", res.Confidence)
	}
}

func TestDailyBudgetResolvesBaseFromPlan(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)
	store.setPlan(1, june2025, surplusPlan())
	p := newTestPlanner(t, store)

	res, err := p.DailyBudget(context.Background(), 1, june2025.DateOf(17), 0)
	if err != nil {
		t.Fatalf("DailyBudget: %v", err)
	}
	if res.BaseDailyBudget != 70 {
		t.Errorf("base = %v, want 70 from the stored plan", res.BaseDailyBudget)
	}

	_, err = p.DailyBudget(context.Background(), 1, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC), 0)
	if err == nil {
		t.Error("expected error for a month with no plan and no explicit base")
	}
}

func TestMonthAnalysisRequiresPlan(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)
	p := newTestPlanner(t, store)

	_, err := p.MonthAnalysis(context.Background(), 1, june2025, 11)
	if err == nil {
		t.Fatal("expected error for missing plan")
	}
}

func TestProposeRebalanceAppliesTierConstraints(t *testing.T) {
	ctx := context.Background()

	// 19 future days share a 300 surplus: weekday shares get dropped by
	// materiality at middle tier, and everything drops at low tier.
	propose := func(t *testing.T, tier models.IncomeTier) *Proposal {
		t.Helper()
		store := newFakeStore()
		store.addUser(1, tier, nil)
		store.setPlan(1, june2025, surplusPlan())
		p := newTestPlanner(t, store)

		proposal, err := p.ProposeRebalance(ctx, 1, june2025, 11)
		if err != nil {
			t.Fatalf("ProposeRebalance: %v", err)
		}
		return proposal
	}

	middle := propose(t, models.TierMiddle)
	if !middle.Analysis.NeedsRedistribution {
		t.Fatal("expected redistribution need at a 300 surplus")
	}
	if len(middle.Opportunities) != 9 {
		t.Fatalf("middle tier kept %d opportunities, want 9 (weekends and fridays)", len(middle.Opportunities))
	}
	for _, o := range middle.Opportunities {
		if wd := june2025.WeekdayOf(o.Day); wd < 5 {
			t.Errorf("day %d (weekday %d) survived, want only fridays and weekends", o.Day, wd)
		}
		if o.Amount < 10 {
			t.Errorf("day %d amount %.2f below materiality floor", o.Day, o.Amount)
		}
	}

	low := propose(t, models.TierLow)
	if len(low.Opportunities) != 0 {
		t.Errorf("low tier kept %d opportunities, want 0 after 0.7 scaling", len(low.Opportunities))
	}

	store := newFakeStore()
	p := newTestPlanner(t, store)
	if _, err := p.ProposeRebalance(ctx, 404, june2025, 11); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestApplyRebalancePersistsSurvivingDeltas(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)
	store.setPlan(1, june2025, surplusPlan())
	p := newTestPlanner(t, store)

	proposal, receipt, err := p.ApplyRebalance(context.Background(), 1, june2025, 11)
	if err != nil {
		t.Fatalf("ApplyRebalance: %v", err)
	}

	if receipt.BatchID == "" {
		t.Error("receipt has no batch ID")
	}
	if receipt.Applied != len(proposal.Opportunities) {
		t.Errorf("applied %d of %d proposed deltas", receipt.Applied, len(proposal.Opportunities))
	}
	if receipt.Skipped != 0 {
		t.Errorf("skipped %d deltas, want 0", receipt.Skipped)
	}
	if len(store.logged) != receipt.Applied {
		t.Errorf("logged %d deltas, want %d", len(store.logged), receipt.Applied)
	}

	// Saturday June 14 must have been raised above its original limit
	entries := store.plans[1][june2025.String()]
	for _, e := range entries {
		if e.Day == 14 && e.Limit <= 70 {
			t.Errorf("day 14 limit = %.2f, want above 70 after rebalance", e.Limit)
		}
		if e.Day == 17 && e.Limit != 70 {
			t.Errorf("day 17 limit = %.2f, want untouched 70", e.Limit)
		}
	}
}

func TestNudgesReflectRemainingBudget(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)

	// Overspent month: 2100 budgeted, 2150 already spent by June 10
	entries := make([]models.DailyPlanEntry, 0, 30)
	for day := 1; day <= 30; day++ {
		e := models.DailyPlanEntry{Day: day, Limit: 70}
		if day <= 9 {
			e.Spent = 238.89
		}
		entries = append(entries, e)
	}
	store.setPlan(1, june2025, entries)
	p := newTestPlanner(t, store)

	nudges, err := p.Nudges(context.Background(), 1, june2025.DateOf(10))
	if err != nil {
		t.Fatalf("Nudges: %v", err)
	}
	if len(nudges) == 0 {
		t.Fatal("expected nudges for an overspent month")
	}
	if nudges[0].Type != advice.NudgeOverspentAlert {
		t.Errorf("first nudge = %q, want %q", nudges[0].Type, advice.NudgeOverspentAlert)
	}

	if _, err := p.Nudges(context.Background(), 404, june2025.DateOf(10)); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestCategorySummaryScopedToMonth(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)
	store.txns[1] = []models.Transaction{
		{UserID: 1, Date: june2025.DateOf(3), Amount: 120, Category: models.CategoryGroceries},
		{UserID: 1, Date: june2025.DateOf(8), Amount: 60, Category: models.CategoryDining},
		{UserID: 1, Date: time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC), Amount: 500, Category: models.CategoryTravel},
	}
	p := newTestPlanner(t, store)

	shares, err := p.CategorySummary(context.Background(), 1, june2025)
	if err != nil {
		t.Fatalf("CategorySummary: %v", err)
	}
	if len(shares) != 2 {
		t.Fatalf("got %d categories, want 2 (May spending excluded)", len(shares))
	}
	if shares[0].Category != models.CategoryGroceries || shares[0].Total != 120 {
		t.Errorf("top share = %+v, want groceries at 120", shares[0])
	}
}

func TestRefreshPatternsCountsUsersWithHistory(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, models.TierMiddle, nil)
	store.addUser(2, models.TierLow, nil)
	store.addUser(3, models.TierHigh, nil)
	store.txns[1] = mayHistory(1)
	store.txns[2] = mayHistory(2)
	p := newTestPlanner(t, store)

	learned, err := p.RefreshPatterns(context.Background(), june2025)
	if err != nil {
		t.Fatalf("RefreshPatterns: %v", err)
	}
	if learned != 2 {
		t.Errorf("learned %d patterns, want 2", learned)
	}

	// Users with history are now cached
	reads := store.historyReads.Load()
	if _, err := p.Pattern(context.Background(), 1, june2025); err != nil {
		t.Fatalf("Pattern after refresh: %v", err)
	}
	if got := store.historyReads.Load(); got != reads {
		t.Errorf("cached pattern reread history (%d reads, was %d)", got, reads)
	}
}
