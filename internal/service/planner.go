// Package service composes the engine's pure packages into user-facing
// operations: learn a pattern, adjust a day's budget, analyze a month,
// propose and apply rebalances, and generate nudges. All persistence is
// behind the Store interface; everything above it is deterministic given
// the stored data.
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teniee/mita-budget-engine/internal/advice"
	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/database"
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/rebalance"
	"github.com/teniee/mita-budget-engine/internal/temporal"
)

// refreshWorkers bounds concurrent pattern refreshes; each worker holds
// one pooled database connection while it reads history.
const refreshWorkers = 8

// Store is the persistence surface the planner needs. *database.Queries
// implements it; tests substitute an in-memory fake.
type Store interface {
	GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error)
	MonthPlan(ctx context.Context, userID int64, month models.PlanMonth) ([]models.DailyPlanEntry, error)
	ApplyPlanDeltas(ctx context.Context, userID int64, month models.PlanMonth, deltas []database.PlanDelta) (*database.RebalanceReceipt, error)
}

// Planner is the budget engine's service layer
type Planner struct {
	store Store
	cache *PatternCache

	learner  *temporal.Learner
	calc     *temporal.Calculator
	analyzer *rebalance.Analyzer
	gen      *rebalance.Generator
	filter   *rebalance.Filter
	nudger   *advice.Nudger

	cfg *config.Config
}

// NewPlanner wires the engine components under one configuration
func NewPlanner(store Store, cache *PatternCache, rules temporal.CalendarRules, cfg *config.Config) *Planner {
	return &Planner{
		store:    store,
		cache:    cache,
		learner:  temporal.NewLearner(rules, cfg.Temporal),
		calc:     temporal.NewCalculator(rules, cfg.Temporal),
		analyzer: rebalance.NewAnalyzer(cfg.Policy),
		gen:      rebalance.NewGenerator(cfg.Policy),
		filter:   rebalance.NewFilter(cfg.Policy),
		nudger:   advice.NewNudger(cfg.Nudge),
		cfg:      cfg,
	}
}

// Pattern returns the user's learned spending pattern as of a month,
// derived from the configured trailing window of history ending with the
// prior month. A user with no history in the window has no pattern and
// gets nil, which downstream adjustments treat as the no-history fallback.
func (p *Planner) Pattern(ctx context.Context, userID int64, month models.PlanMonth) (*temporal.SpendingPattern, error) {
	if pattern, ok := p.cache.Get(userID, month); ok {
		return pattern, nil
	}

	from := month.AddMonths(-p.cfg.Temporal.HistoryMonths).DateOf(1)
	to := month.DateOf(1).AddDate(0, 0, -1)

	txns, err := p.store.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading history for user %d: %w", userID, err)
	}
	if len(txns) == 0 {
		return nil, nil
	}

	pattern, err := p.learner.Learn(txns)
	if err != nil {
		return nil, fmt.Errorf("learning pattern for user %d: %w", userID, err)
	}

	p.cache.Set(userID, month, pattern)
	return pattern, nil
}

// DailyBudget adjusts a base daily budget for one calendar date using the
// user's learned pattern. A base of zero resolves against the stored plan
// limit for that day.
func (p *Planner) DailyBudget(ctx context.Context, userID int64, date time.Time, base float64) (*temporal.BudgetResult, error) {
	month := models.PlanMonthOf(date)

	if base <= 0 {
		entries, err := p.store.MonthPlan(ctx, userID, month)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Day == date.Day() {
				base = e.Limit
				break
			}
		}
		if base <= 0 {
			return nil, fmt.Errorf("no base budget: user %d has no plan limit for %s", userID, date.Format("2006-01-02"))
		}
	}

	pattern, err := p.Pattern(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	return p.calc.DailyBudget(base, date, pattern)
}

// MonthAnalysis summarizes a user's month-to-date plan performance
func (p *Planner) MonthAnalysis(ctx context.Context, userID int64, month models.PlanMonth, currentDay int) (*rebalance.CalendarAnalysis, error) {
	entries, err := p.store.MonthPlan(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("user %d has no plan for %s", userID, month)
	}
	return p.analyzer.Analyze(entries, month, currentDay)
}

// Proposal is a filtered set of budget shifts for one user's month
type Proposal struct {
	Analysis      *rebalance.CalendarAnalysis `json:"analysis"`
	Tier          models.IncomeTier           `json:"tier"`
	Opportunities []rebalance.Opportunity     `json:"opportunities"`
}

// ProposeRebalance analyzes a month and produces the redistribution
// opportunities that survive the user's tier and behavior constraints
func (p *Planner) ProposeRebalance(ctx context.Context, userID int64, month models.PlanMonth, currentDay int) (*Proposal, error) {
	profile, err := p.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("unknown user %d", userID)
	}

	analysis, err := p.MonthAnalysis(ctx, userID, month, currentDay)
	if err != nil {
		return nil, err
	}

	opps := p.gen.Propose(analysis)
	opps = p.filter.Apply(opps, profile.Tier, profile.Behavior)

	return &Proposal{
		Analysis:      analysis,
		Tier:          profile.Tier,
		Opportunities: opps,
	}, nil
}

// ApplyRebalance proposes and persists a rebalance in one step. The
// returned receipt carries the batch ID the applied deltas were logged
// under; a proposal with no surviving opportunities applies nothing.
func (p *Planner) ApplyRebalance(ctx context.Context, userID int64, month models.PlanMonth, currentDay int) (*Proposal, *database.RebalanceReceipt, error) {
	proposal, err := p.ProposeRebalance(ctx, userID, month, currentDay)
	if err != nil {
		return nil, nil, err
	}

	deltas := make([]database.PlanDelta, 0, len(proposal.Opportunities))
	for _, o := range proposal.Opportunities {
		deltas = append(deltas, database.PlanDelta{
			Day:    o.Day,
			Amount: o.Amount,
			Reason: o.Reason,
		})
	}

	receipt, err := p.store.ApplyPlanDeltas(ctx, userID, month, deltas)
	if err != nil {
		return nil, nil, fmt.Errorf("applying rebalance for user %d: %w", userID, err)
	}

	return proposal, receipt, nil
}

// Nudges generates advisory nudges for a user on one date from the
// month's remaining budget
func (p *Planner) Nudges(ctx context.Context, userID int64, date time.Time) ([]advice.Nudge, error) {
	profile, err := p.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("unknown user %d", userID)
	}

	month := models.PlanMonthOf(date)
	entries, err := p.store.MonthPlan(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("user %d has no plan for %s", userID, month)
	}

	var budgeted, spent float64
	for _, e := range entries {
		budgeted += e.Limit
		spent += e.Spent
	}

	return p.nudger.Generate(advice.Input{
		Date:            date,
		Tier:            profile.Tier,
		RemainingBudget: budgeted - spent,
		RemainingDays:   month.Days() - date.Day(),
	})
}

// CategorySummary totals a user's spending by category over one month
func (p *Planner) CategorySummary(ctx context.Context, userID int64, month models.PlanMonth) ([]advice.CategoryShare, error) {
	txns, err := p.store.ListTransactions(ctx, userID, month.DateOf(1), month.DateOf(month.Days()))
	if err != nil {
		return nil, fmt.Errorf("loading transactions for user %d: %w", userID, err)
	}
	return advice.SummarizeCategories(txns)
}

// RefreshPatterns relearns patterns for every user concurrently and
// returns how many users had enough history to produce one. The first
// failure cancels the remaining work.
func (p *Planner) RefreshPatterns(ctx context.Context, month models.PlanMonth) (int, error) {
	ids, err := p.store.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing users: %w", err)
	}

	var learned atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshWorkers)

	for _, id := range ids {
		g.Go(func() error {
			p.cache.Drop(id, month)
			pattern, err := p.Pattern(ctx, id, month)
			if err != nil {
				return err
			}
			if pattern != nil {
				learned.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(learned.Load()), err
	}
	return int(learned.Load()), nil
}
