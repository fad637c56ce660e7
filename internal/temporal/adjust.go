package temporal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/models"
)

// Factor names keying BudgetResult.FactorBreakdown.
const (
	FactorDayOfWeek = "day_of_week"
	FactorWeekend   = "weekend"
	FactorMonthEnd  = "month_end"
	FactorHoliday   = "holiday"
	FactorSeasonal  = "seasonal"
	FactorPayday    = "payday"
)

// Primary reasons reported on BudgetResult. Later factors in evaluation
// order override earlier ones.
const (
	ReasonNoHistory        = "no historical patterns available"
	ReasonTypicalDay       = "typical spending day"
	ReasonWeekend          = "weekend spending adjustment"
	ReasonMonthEndConserve = "month-end conservation"
	ReasonHoliday          = "holiday spending pattern"
)

// BudgetResult explains one adjusted daily budget.
type BudgetResult struct {
	Date                time.Time `json:"date"`
	BaseDailyBudget     float64   `json:"base_daily_budget"`
	AdjustedDailyBudget float64   `json:"adjusted_daily_budget"`

	// Multiplier is the composite after clamping; FactorBreakdown keeps
	// each applied factor's raw pre-clamp value for explainability.
	Multiplier          float64            `json:"multiplier"`
	PrimaryReason       string             `json:"primary_reason"`
	ContributingFactors []string           `json:"contributing_factors"`
	Confidence          float64            `json:"confidence"`
	FactorBreakdown     map[string]float64 `json:"factor_breakdown"`
}

// Calculator turns a learned pattern and a target date into a bounded
// daily budget adjustment.
type Calculator struct {
	rules CalendarRules
	cfg   config.TemporalConfig
}

// NewCalculator creates a calculator over the given calendar rules and
// temporal settings.
func NewCalculator(rules CalendarRules, cfg config.TemporalConfig) *Calculator {
	return &Calculator{rules: rules, cfg: cfg}
}

// DailyBudget adjusts a base budget for one calendar date. A nil pattern
// is the "never learned" case: neutral multiplier at 0.5 confidence,
// distinct from a pattern learned over zero samples, which carries its
// own zero confidence.
func (c *Calculator) DailyBudget(base float64, date time.Time, p *SpendingPattern) (*BudgetResult, error) {
	if date.IsZero() {
		return nil, errors.New("adjust daily budget: zero date")
	}
	if base < 0 {
		return nil, fmt.Errorf("adjust daily budget: negative base %.2f", base)
	}

	res := &BudgetResult{
		Date:            date,
		BaseDailyBudget: base,
		Multiplier:      1.0,
		PrimaryReason:   ReasonNoHistory,
		Confidence:      0.5,
		FactorBreakdown: make(map[string]float64),
	}
	if p == nil {
		res.AdjustedDailyBudget = base
		return res, nil
	}

	weekday := models.ISOWeekday(date)
	day := date.Day()
	res.PrimaryReason = ReasonTypicalDay
	res.Confidence = p.Confidence

	mult := 1.0

	if m := p.DayOfWeekMultiplier(weekday); m != 1.0 {
		mult *= m
		res.FactorBreakdown[FactorDayOfWeek] = m
		res.ContributingFactors = append(res.ContributingFactors,
			fmt.Sprintf("%ss run %.2fx your daily average", date.Weekday(), m))
	}

	if weekday >= 6 && p.WeekendEffect != 1.0 {
		mult *= p.WeekendEffect
		res.FactorBreakdown[FactorWeekend] = p.WeekendEffect
		res.PrimaryReason = ReasonWeekend
		res.ContributingFactors = append(res.ContributingFactors,
			fmt.Sprintf("weekends run %.2fx your weekday average", p.WeekendEffect))
	}

	if day > c.cfg.MonthEndAfter {
		mult *= p.MonthEndEffect
		if p.MonthEndEffect != 1.0 {
			res.FactorBreakdown[FactorMonthEnd] = p.MonthEndEffect
			res.ContributingFactors = append(res.ContributingFactors,
				fmt.Sprintf("month-end spending runs %.2fx your mid-month average", p.MonthEndEffect))
			if p.MonthEndEffect < 1.0 {
				res.PrimaryReason = ReasonMonthEndConserve
			}
		}
	}

	if name, ok := c.rules.Holiday(date); ok {
		m := p.HolidayMultiplier(name)
		mult *= m
		if m != 1.0 {
			res.FactorBreakdown[FactorHoliday] = m
			res.PrimaryReason = ReasonHoliday
			res.ContributingFactors = append(res.ContributingFactors,
				fmt.Sprintf("%s spending runs %.2fx your daily average",
					strings.ReplaceAll(name, "_", " "), m))
		}
	}

	season := c.rules.Season(date.Month())
	seasonMult := p.SeasonalMultiplier(season)
	mult *= seasonMult
	if seasonMult != 1.0 {
		res.FactorBreakdown[FactorSeasonal] = seasonMult
		res.ContributingFactors = append(res.ContributingFactors,
			fmt.Sprintf("%s spending runs %.2fx your daily average", season, seasonMult))
	}

	if nearPayday(c.cfg.PaydayWindows, day) {
		mult *= p.PaydayEffect
		if p.PaydayEffect != 1.0 {
			res.FactorBreakdown[FactorPayday] = p.PaydayEffect
			res.ContributingFactors = append(res.ContributingFactors,
				fmt.Sprintf("payday windows run %.2fx your usual pace", p.PaydayEffect))
		}
	}

	res.Multiplier = clamp(mult, c.cfg.ClampMin, c.cfg.ClampMax)
	res.AdjustedDailyBudget = base * res.Multiplier
	return res, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
