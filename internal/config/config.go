package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the budget engine
type Config struct {
	// Database configuration (plan/transaction store)
	Database DatabaseConfig `mapstructure:"database"`

	// Redistribution policy thresholds and scales
	Policy PolicyConfig `mapstructure:"policy"`

	// Temporal pattern learning and adjustment
	Temporal TemporalConfig `mapstructure:"temporal"`

	// Advisory nudges
	Nudge NudgeConfig `mapstructure:"nudge"`

	// Learned-pattern cache sizing
	Cache CacheConfig `mapstructure:"cache"`

	// Synthetic data seeding
	Seed SeedConfig `mapstructure:"seed"`

	// Display currency for CLI output (ISO 4217 code)
	Currency string `mapstructure:"currency"`

	// Logging
	Verbose bool `mapstructure:"verbose"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Connection string (DSN)
	// Format: user:password@tcp(host:port)/database
	DSN string `mapstructure:"dsn"`

	// Driver (mysql)
	Driver string `mapstructure:"driver"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// PolicyConfig holds the redistribution policy constants. These encode
// product policy, not derived math, so every threshold and scale is
// overridable per deployment.
type PolicyConfig struct {
	// DetectThreshold is the absolute surplus that flags a month as
	// needing redistribution.
	DetectThreshold float64 `mapstructure:"detect_threshold"`

	// ActionFloor is the absolute surplus below which the generator
	// proposes nothing, even when detection already triggered.
	ActionFloor float64 `mapstructure:"action_floor"`

	// MaterialityMin drops any rescaled opportunity smaller than this.
	MaterialityMin float64 `mapstructure:"materiality_min"`

	// UnderspendRatio marks a past day underspent when
	// spent < ratio * limit.
	UnderspendRatio float64 `mapstructure:"underspend_ratio"`

	// Surplus distribution priorities by day kind
	WeekendPriority float64 `mapstructure:"weekend_priority"`
	FridayPriority  float64 `mapstructure:"friday_priority"`
	WeekdayPriority float64 `mapstructure:"weekday_priority"`

	// Deficit recovery: weekend reductions are boosted by this factor
	DeficitWeekendBoost    float64 `mapstructure:"deficit_weekend_boost"`
	DeficitPriority        float64 `mapstructure:"deficit_priority"`
	DeficitWeekendPriority float64 `mapstructure:"deficit_weekend_priority"`

	// Income tier scaling of proposed amounts
	TierScaleLow         float64 `mapstructure:"tier_scale_low"`
	TierScaleLowerMiddle float64 `mapstructure:"tier_scale_lower_middle"`
	TierScaleMiddle      float64 `mapstructure:"tier_scale_middle"`
	TierScaleUpperMiddle float64 `mapstructure:"tier_scale_upper_middle"`
	TierScaleHigh        float64 `mapstructure:"tier_scale_high"`

	// Behavioral profile scaling
	RiskScaleLow    float64 `mapstructure:"risk_scale_low"`
	RiskScaleHigh   float64 `mapstructure:"risk_scale_high"`
	SpenderDampener float64 `mapstructure:"spender_dampener"`
}

// DayWindow is an inclusive day-of-month range.
type DayWindow struct {
	From int `mapstructure:"from"`
	To   int `mapstructure:"to"`
}

// Contains reports whether a day-of-month falls inside the window.
func (w DayWindow) Contains(day int) bool {
	return day >= w.From && day <= w.To
}

// ConfidenceBand maps a sample-count ceiling (exclusive) to a confidence
// score. Bands are ordered ascending by UpTo.
type ConfidenceBand struct {
	UpTo  int     `mapstructure:"up_to"`
	Score float64 `mapstructure:"score"`
}

// TemporalConfig holds pattern learning and budget adjustment settings
type TemporalConfig struct {
	// Clamp bounds for the composite daily multiplier
	ClampMin float64 `mapstructure:"clamp_min"`
	ClampMax float64 `mapstructure:"clamp_max"`

	// Days strictly after this day-of-month count as month-end
	MonthEndAfter int `mapstructure:"month_end_after"`

	// Day-of-month windows treated as "near payday"
	PaydayWindows []DayWindow `mapstructure:"payday_windows"`

	// Confidence step function over sample count
	ConfidenceBands []ConfidenceBand `mapstructure:"confidence_bands"`
	ConfidenceFull  float64          `mapstructure:"confidence_full"`

	// How many months of history to learn from
	HistoryMonths int `mapstructure:"history_months"`
}

// NudgeConfig holds advisory nudge settings
type NudgeConfig struct {
	// Calendar day from which month-end urgency nudges fire
	MonthEndFromDay int `mapstructure:"month_end_from_day"`

	// Per-day remainder below this triggers the low-budget warning
	LowDailyFloor float64 `mapstructure:"low_daily_floor"`

	// Remaining budget above baseline*days*factor triggers the
	// surplus-opportunity nudge
	SurplusFactor float64 `mapstructure:"surplus_factor"`

	// Baseline expected daily spend per income tier, used for
	// tier-aware messaging and the surplus rule
	BaselineDailyLow         float64 `mapstructure:"baseline_daily_low"`
	BaselineDailyLowerMiddle float64 `mapstructure:"baseline_daily_lower_middle"`
	BaselineDailyMiddle      float64 `mapstructure:"baseline_daily_middle"`
	BaselineDailyUpperMiddle float64 `mapstructure:"baseline_daily_upper_middle"`
	BaselineDailyHigh        float64 `mapstructure:"baseline_daily_high"`
}

// CacheConfig sizes the per-user pattern cache
type CacheConfig struct {
	NumCounters int64 `mapstructure:"num_counters"`
	MaxCost     int64 `mapstructure:"max_cost"`
	BufferItems int64 `mapstructure:"buffer_items"`
}

// SeedConfig holds synthetic data generation settings
type SeedConfig struct {
	// Random seed for reproducibility (0 = random)
	Seed uint64 `mapstructure:"seed"`

	// Volume settings
	Users  int `mapstructure:"users"`
	Months int `mapstructure:"months"`

	// Expected spend per day before boosts
	BaseDaily float64 `mapstructure:"base_daily"`

	// Temporal structure baked into generated histories
	WeekendBoost  float64 `mapstructure:"weekend_boost"`
	PaydayBoost   float64 `mapstructure:"payday_boost"`
	MonthEndBoost float64 `mapstructure:"month_end_boost"`
	HolidayBoost  float64 `mapstructure:"holiday_boost"`
	PaydayDays    []int   `mapstructure:"payday_days"`

	// Relative noise applied to each transaction amount
	Noise float64 `mapstructure:"noise"`

	// Fraction of past plan days that overshoot their limit
	OverspendRate float64 `mapstructure:"overspend_rate"`

	// Daily plan limit = base_daily * plan_cushion
	PlanCushion float64 `mapstructure:"plan_cushion"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DBDriver,
			MaxOpenConns:    DBMaxOpenConns,
			MaxIdleConns:    DBMaxIdleConns,
			ConnMaxLifetime: DBConnMaxLifetime,
			ConnMaxIdleTime: DBConnMaxIdleTime,
		},
		Policy: PolicyConfig{
			DetectThreshold:        DetectThreshold,
			ActionFloor:            ActionFloor,
			MaterialityMin:         MaterialityMin,
			UnderspendRatio:        UnderspendRatio,
			WeekendPriority:        WeekendPriority,
			FridayPriority:         FridayPriority,
			WeekdayPriority:        WeekdayPriority,
			DeficitWeekendBoost:    DeficitWeekendBoost,
			DeficitPriority:        DeficitPriority,
			DeficitWeekendPriority: DeficitWeekendPriority,
			TierScaleLow:           TierScaleLow,
			TierScaleLowerMiddle:   TierScaleLowerMiddle,
			TierScaleMiddle:        TierScaleMiddle,
			TierScaleUpperMiddle:   TierScaleUpperMiddle,
			TierScaleHigh:          TierScaleHigh,
			RiskScaleLow:           RiskScaleLow,
			RiskScaleHigh:          RiskScaleHigh,
			SpenderDampener:        SpenderDampener,
		},
		Temporal: TemporalConfig{
			ClampMin:      ClampMin,
			ClampMax:      ClampMax,
			MonthEndAfter: MonthEndAfter,
			PaydayWindows: []DayWindow{
				{From: 1, To: 3},
				{From: 15, To: 17},
			},
			ConfidenceBands: []ConfidenceBand{
				{UpTo: 10, Score: 0.3},
				{UpTo: 30, Score: 0.6},
				{UpTo: 90, Score: 0.8},
			},
			ConfidenceFull: ConfidenceFull,
			HistoryMonths:  HistoryMonths,
		},
		Nudge: NudgeConfig{
			MonthEndFromDay:          NudgeMonthEndFromDay,
			LowDailyFloor:            NudgeLowDailyFloor,
			SurplusFactor:            NudgeSurplusFactor,
			BaselineDailyLow:         BaselineDailyLow,
			BaselineDailyLowerMiddle: BaselineDailyLowerMiddle,
			BaselineDailyMiddle:      BaselineDailyMiddle,
			BaselineDailyUpperMiddle: BaselineDailyUpperMiddle,
			BaselineDailyHigh:        BaselineDailyHigh,
		},
		Cache: CacheConfig{
			NumCounters: CacheNumCounters,
			MaxCost:     CacheMaxCost,
			BufferItems: CacheBufferItems,
		},
		Seed: SeedConfig{
			Seed:          0,
			Users:         SeedUsers,
			Months:        SeedMonths,
			BaseDaily:     SeedBaseDaily,
			WeekendBoost:  SeedWeekendBoost,
			PaydayBoost:   SeedPaydayBoost,
			MonthEndBoost: SeedMonthEndBoost,
			HolidayBoost:  SeedHolidayBoost,
			PaydayDays:    []int{1, 15},
			Noise:         SeedNoise,
			OverspendRate: SeedOverspendRate,
			PlanCushion:   SeedPlanCushion,
		},
		Currency: DisplayCurrency,
		Verbose:  false,
	}
}

// Load reads configuration from viper into a Config struct
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Unmarshal viper config into struct
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []string

	// Validate policy config
	if c.Policy.DetectThreshold < 0 {
		errs = append(errs, "policy.detect_threshold must be non-negative")
	}
	if c.Policy.ActionFloor < 0 {
		errs = append(errs, "policy.action_floor must be non-negative")
	}
	if c.Policy.ActionFloor > c.Policy.DetectThreshold {
		errs = append(errs, "policy.action_floor should not exceed detect_threshold")
	}
	if c.Policy.MaterialityMin < 0 {
		errs = append(errs, "policy.materiality_min must be non-negative")
	}
	if c.Policy.UnderspendRatio <= 0 || c.Policy.UnderspendRatio > 1 {
		errs = append(errs, "policy.underspend_ratio must be in (0.0, 1.0]")
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"policy.weekend_priority", c.Policy.WeekendPriority},
		{"policy.friday_priority", c.Policy.FridayPriority},
		{"policy.weekday_priority", c.Policy.WeekdayPriority},
		{"policy.deficit_priority", c.Policy.DeficitPriority},
		{"policy.deficit_weekend_priority", c.Policy.DeficitWeekendPriority},
	} {
		if p.value < 0 || p.value > 1 {
			errs = append(errs, p.name+" must be between 0.0 and 1.0")
		}
	}
	if c.Policy.DeficitWeekendBoost < 1 {
		errs = append(errs, "policy.deficit_weekend_boost must be >= 1.0")
	}
	for _, s := range []struct {
		name  string
		value float64
	}{
		{"policy.tier_scale_low", c.Policy.TierScaleLow},
		{"policy.tier_scale_lower_middle", c.Policy.TierScaleLowerMiddle},
		{"policy.tier_scale_middle", c.Policy.TierScaleMiddle},
		{"policy.tier_scale_upper_middle", c.Policy.TierScaleUpperMiddle},
		{"policy.tier_scale_high", c.Policy.TierScaleHigh},
		{"policy.risk_scale_low", c.Policy.RiskScaleLow},
		{"policy.risk_scale_high", c.Policy.RiskScaleHigh},
		{"policy.spender_dampener", c.Policy.SpenderDampener},
	} {
		if s.value <= 0 {
			errs = append(errs, s.name+" must be positive")
		}
	}

	// Validate temporal config
	if c.Temporal.ClampMin <= 0 {
		errs = append(errs, "temporal.clamp_min must be positive")
	}
	if c.Temporal.ClampMax < c.Temporal.ClampMin {
		errs = append(errs, "temporal.clamp_max must be >= clamp_min")
	}
	if c.Temporal.MonthEndAfter < 1 || c.Temporal.MonthEndAfter > 31 {
		errs = append(errs, "temporal.month_end_after must be between 1 and 31")
	}
	for i, w := range c.Temporal.PaydayWindows {
		if w.From < 1 || w.To > 31 || w.From > w.To {
			errs = append(errs, fmt.Sprintf("temporal.payday_windows[%d] must be a valid 1-31 range", i))
		}
	}
	prev := 0
	for i, b := range c.Temporal.ConfidenceBands {
		if b.UpTo <= prev {
			errs = append(errs, fmt.Sprintf("temporal.confidence_bands[%d] must ascend by up_to", i))
		}
		if b.Score < 0 || b.Score > 1 {
			errs = append(errs, fmt.Sprintf("temporal.confidence_bands[%d].score must be between 0.0 and 1.0", i))
		}
		prev = b.UpTo
	}
	if c.Temporal.ConfidenceFull < 0 || c.Temporal.ConfidenceFull > 1 {
		errs = append(errs, "temporal.confidence_full must be between 0.0 and 1.0")
	}
	if c.Temporal.HistoryMonths <= 0 {
		errs = append(errs, "temporal.history_months must be positive")
	}

	// Validate nudge config
	if c.Nudge.MonthEndFromDay < 1 || c.Nudge.MonthEndFromDay > 31 {
		errs = append(errs, "nudge.month_end_from_day must be between 1 and 31")
	}
	if c.Nudge.LowDailyFloor < 0 {
		errs = append(errs, "nudge.low_daily_floor must be non-negative")
	}
	if c.Nudge.SurplusFactor <= 1 {
		errs = append(errs, "nudge.surplus_factor must be > 1.0")
	}

	// Validate cache config
	if c.Cache.NumCounters <= 0 {
		errs = append(errs, "cache.num_counters must be positive")
	}
	if c.Cache.MaxCost <= 0 {
		errs = append(errs, "cache.max_cost must be positive")
	}
	if c.Cache.BufferItems <= 0 {
		errs = append(errs, "cache.buffer_items must be positive")
	}

	// Validate seed config
	if c.Seed.Users <= 0 {
		errs = append(errs, "seed.users must be positive")
	}
	if c.Seed.Months <= 0 {
		errs = append(errs, "seed.months must be positive")
	}
	if c.Seed.BaseDaily <= 0 {
		errs = append(errs, "seed.base_daily must be positive")
	}
	if c.Seed.Noise < 0 || c.Seed.Noise > 1 {
		errs = append(errs, "seed.noise must be between 0.0 and 1.0")
	}
	if c.Seed.OverspendRate < 0 || c.Seed.OverspendRate > 1 {
		errs = append(errs, "seed.overspend_rate must be between 0.0 and 1.0")
	}
	if c.Seed.PlanCushion <= 0 {
		errs = append(errs, "seed.plan_cushion must be positive")
	}
	for _, d := range c.Seed.PaydayDays {
		if d < 1 || d > 31 {
			errs = append(errs, "seed.payday_days entries must be between 1 and 31")
		}
	}

	// Validate database pool settings
	if c.Database.MaxOpenConns < 1 {
		errs = append(errs, "database.max_open_conns must be >= 1")
	}
	if c.Database.MaxIdleConns < 0 {
		errs = append(errs, "database.max_idle_conns must be >= 0")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, "database.max_idle_conns should not exceed max_open_conns")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", joinErrors(errs))
	}

	return nil
}

// joinErrors joins error messages with newline and bullet points
func joinErrors(errs []string) string {
	result := errs[0]
	for i := 1; i < len(errs); i++ {
		result += "\n  - " + errs[i]
	}
	return result
}
