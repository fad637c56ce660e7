package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/data"
	"github.com/teniee/mita-budget-engine/internal/database"
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/service"
	"github.com/teniee/mita-budget-engine/internal/ui"
)

// engine bundles everything a database-backed command needs
type engine struct {
	cfg     *config.Config
	pool    *database.Pool
	queries *database.Queries
	cache   *service.PatternCache
	planner *service.Planner
}

// openEngine loads configuration, connects to the database, and wires the
// planner. Callers must Close it.
func openEngine(ctx context.Context, u *ui.UI) (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbDSN != "" {
		cfg.Database.DSN = dbDSN
	}
	if verbose {
		cfg.Verbose = true
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("no database configured: pass --db, set MITA_DATABASE_DSN, or add database.dsn to mita.yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := database.NewPool(cfg.Database)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	spin := u.NewSpinner("Connecting to database")
	spin.Start()
	if err := pool.Connect(connectCtx); err != nil {
		spin.Error("connection failed: " + err.Error())
		pool.Close()
		return nil, err
	}
	spin.Success("connected")

	rules, err := data.Default()
	if err != nil {
		pool.Close()
		return nil, err
	}

	cache, err := service.NewPatternCache(cfg.Cache)
	if err != nil {
		pool.Close()
		return nil, err
	}

	queries := database.NewQueries(pool)
	return &engine{
		cfg:     cfg,
		pool:    pool,
		queries: queries,
		cache:   cache,
		planner: service.NewPlanner(queries, cache, rules, cfg),
	}, nil
}

// Close releases the pool and cache
func (e *engine) Close() {
	e.cache.Close()
	e.pool.Close()
}

// newUI builds a UI honoring the global color flag
func newUI() *ui.UI {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}
	return u
}

// parseMonthFlag resolves a --month value, defaulting to the current month.
func parseMonthFlag(value string) (models.PlanMonth, error) {
	if value == "" {
		return models.PlanMonthOf(time.Now()), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return models.PlanMonth{}, fmt.Errorf("invalid month %q, want YYYY-MM", value)
	}
	return models.PlanMonthOf(t), nil
}

// parseDateFlag resolves a --date value, defaulting to today.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}

// resolveDay defaults a --day value to today when the month is the
// current one, and to the month's last day otherwise.
func resolveDay(day int, month models.PlanMonth) int {
	if day > 0 {
		return day
	}
	now := time.Now()
	if models.PlanMonthOf(now) == month {
		return now.Day()
	}
	return month.Days()
}

// maskDSN hides the password between : and @ for display.
func maskDSN(dsn string) string {
	if colonIdx := strings.Index(dsn, ":"); colonIdx > 0 {
		rest := dsn[colonIdx:]
		if atIdx := strings.Index(rest, "@"); atIdx > 0 {
			return dsn[:colonIdx+1] + "***" + rest[atIdx:]
		}
	}
	return dsn
}
