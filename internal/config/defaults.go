// Package config contains compile-time defaults for the budget engine.
// Edit these values and recompile to tune behavior.
package config

import "time"

// =============================================================================
// REDISTRIBUTION POLICY DEFAULTS
// =============================================================================

// Surplus thresholds, in the plan's currency unit
const (
	// DetectThreshold flags a month as needing redistribution
	DetectThreshold = 50.0

	// ActionFloor is the minimum surplus the generator acts on
	ActionFloor = 20.0

	// MaterialityMin discards rescaled opportunities below this amount
	MaterialityMin = 10.0

	// UnderspendRatio marks a day underspent when spent < ratio * limit
	UnderspendRatio = 0.8
)

// Surplus distribution priorities
const (
	// WeekendPriority is the share weight for Saturday and Sunday
	WeekendPriority = 0.8

	// FridayPriority is the share weight for Friday
	FridayPriority = 0.7

	// WeekdayPriority is the share weight for Monday through Thursday
	WeekdayPriority = 0.5
)

// Deficit recovery
const (
	// DeficitWeekendBoost increases weekend reductions (1.2 = 20% deeper)
	DeficitWeekendBoost = 1.2

	// DeficitPriority is the reported priority of weekday reductions
	DeficitPriority = 0.6

	// DeficitWeekendPriority is the reported priority of weekend reductions
	DeficitWeekendPriority = 0.8
)

// Income tier scaling of proposed redistribution amounts
const (
	TierScaleLow         = 0.7
	TierScaleLowerMiddle = 0.8
	TierScaleMiddle      = 1.0
	TierScaleUpperMiddle = 1.1
	TierScaleHigh        = 1.1
)

// Behavioral profile scaling
const (
	// RiskScaleLow shrinks swings for risk-averse users
	RiskScaleLow = 0.8

	// RiskScaleHigh allows larger swings for risk-tolerant users
	RiskScaleHigh = 1.2

	// SpenderDampener further shrinks swings for spender personalities
	SpenderDampener = 0.9
)

// =============================================================================
// TEMPORAL PATTERN DEFAULTS
// =============================================================================

const (
	// ClampMin bounds the composite daily multiplier from below
	ClampMin = 0.5

	// ClampMax bounds the composite daily multiplier from above
	ClampMax = 2.0

	// MonthEndAfter marks days strictly after this as month-end
	MonthEndAfter = 25

	// ConfidenceFull is the confidence score at 90+ samples
	ConfidenceFull = 0.95

	// HistoryMonths is how far back pattern learning reaches
	HistoryMonths = 6
)

// =============================================================================
// NUDGE DEFAULTS
// =============================================================================

const (
	// NudgeMonthEndFromDay is the first day month-end urgency fires
	NudgeMonthEndFromDay = 25

	// NudgeLowDailyFloor warns when the per-day remainder drops below this
	NudgeLowDailyFloor = 20.0

	// NudgeSurplusFactor triggers the surplus nudge when remaining budget
	// exceeds baseline * days * factor
	NudgeSurplusFactor = 1.5
)

// Baseline expected daily spend per income tier
const (
	BaselineDailyLow         = 18.0
	BaselineDailyLowerMiddle = 28.0
	BaselineDailyMiddle      = 40.0
	BaselineDailyUpperMiddle = 60.0
	BaselineDailyHigh        = 90.0
)

// =============================================================================
// PATTERN CACHE DEFAULTS
// =============================================================================

const (
	// CacheNumCounters tracks access frequency for admission decisions
	CacheNumCounters = 10_000

	// CacheMaxCost is the maximum number of cached patterns (cost 1 each)
	CacheMaxCost = 1_024

	// CacheBufferItems is the ristretto Set buffer size
	CacheBufferItems = 64
)

// =============================================================================
// SYNTHETIC SEED DEFAULTS
// =============================================================================

const (
	// SeedUsers is how many synthetic users to create
	SeedUsers = 25

	// SeedMonths is how many months of history per user
	SeedMonths = 6

	// SeedBaseDaily is the expected spend per day before boosts
	SeedBaseDaily = 42.0

	// SeedWeekendBoost multiplies weekend spending
	SeedWeekendBoost = 1.45

	// SeedPaydayBoost multiplies spending on payday
	SeedPaydayBoost = 1.25

	// SeedMonthEndBoost multiplies spending after the 25th
	SeedMonthEndBoost = 0.85

	// SeedHolidayBoost multiplies spending inside holiday windows
	SeedHolidayBoost = 1.6

	// SeedNoise is the relative noise on each transaction amount
	SeedNoise = 0.35

	// SeedOverspendRate is the fraction of past plan days that overshoot
	SeedOverspendRate = 0.25

	// SeedPlanCushion sets daily limits at base_daily * cushion
	SeedPlanCushion = 1.1
)

// =============================================================================
// DATABASE DEFAULTS
// =============================================================================

const (
	// DBDriver is the database driver to use
	DBDriver = "mysql"

	// DBMaxOpenConns is maximum open connections in the pool
	DBMaxOpenConns = 25

	// DBMaxIdleConns is maximum idle connections in the pool
	DBMaxIdleConns = 5

	// DBConnMaxLifetime is how long a connection can be reused
	DBConnMaxLifetime = 5 * time.Minute

	// DBConnMaxIdleTime is how long an idle connection is kept
	DBConnMaxIdleTime = 1 * time.Minute
)

// =============================================================================
// DISPLAY DEFAULTS
// =============================================================================

const (
	// DisplayCurrency is the ISO 4217 code CLI output is formatted in
	DisplayCurrency = "USD"
)
