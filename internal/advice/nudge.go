// Package advice derives short presentational advisory records from
// budget state. Strictly output-only: nothing produced here feeds back
// into pattern learning or redistribution.
package advice

import (
	"errors"
	"fmt"
	"time"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/models"
)

// NudgeType identifies which advisory rule produced a nudge.
type NudgeType string

const (
	NudgeMotivational     NudgeType = "monday_motivational"
	NudgeWeekendPreview   NudgeType = "weekend_preview"
	NudgeMonthEndUrgency  NudgeType = "month_end_urgency"
	NudgeMidweekCheckIn   NudgeType = "midweek_check_in"
	NudgeWeekendAwareness NudgeType = "weekend_awareness"
	NudgeOverspentAlert   NudgeType = "overspent_alert"
	NudgeLowBudget        NudgeType = "low_budget_warning"
	NudgeSurplus          NudgeType = "surplus_opportunity"
)

// IconTag and ColorTag are opaque presentation hints. The engine never
// interprets them; the UI layer owns the mapping to glyphs and styles.
type IconTag string

const (
	IconTarget   IconTag = "target"
	IconCalendar IconTag = "calendar"
	IconAlarm    IconTag = "alarm"
	IconCompass  IconTag = "compass"
	IconSun      IconTag = "sun"
	IconAlert    IconTag = "alert"
	IconGauge    IconTag = "gauge"
	IconSeedling IconTag = "seedling"
)

// ColorTag is the severity/mood channel matching IconTag.
type ColorTag string

const (
	ColorInfo     ColorTag = "info"
	ColorPositive ColorTag = "positive"
	ColorCaution  ColorTag = "caution"
	ColorCritical ColorTag = "critical"
)

// Nudge is one advisory record for the UI.
type Nudge struct {
	Type          NudgeType `json:"type"`
	Message       string    `json:"message"`
	Effectiveness float64   `json:"effectiveness"`
	Icon          IconTag   `json:"icon"`
	Color         ColorTag  `json:"color"`
}

// Input is the state snapshot nudges are derived from. RemainingBudget
// may be negative when the month is overspent; RemainingDays counts the
// days after Date still in the month.
type Input struct {
	Date            time.Time
	Tier            models.IncomeTier
	RemainingBudget float64
	RemainingDays   int
}

// Nudger evaluates the fixed advisory rules under one policy.
type Nudger struct {
	cfg config.NudgeConfig
}

// NewNudger creates a nudger with the given thresholds and baselines.
func NewNudger(cfg config.NudgeConfig) *Nudger {
	return &Nudger{cfg: cfg}
}

// Generate evaluates every advisory rule against the snapshot and
// returns the nudges that fired, in fixed rule order. Rules are
// independent: one day can produce several nudges. A zero date is an
// integrity violation, not a quiet no-op.
func (n *Nudger) Generate(in Input) ([]Nudge, error) {
	if in.Date.IsZero() {
		return nil, errors.New("generate nudges: zero date")
	}

	weekday := models.ISOWeekday(in.Date)
	day := in.Date.Day()

	perDay := 0.0
	if in.RemainingDays > 0 {
		perDay = in.RemainingBudget / float64(in.RemainingDays)
	}

	var out []Nudge

	if weekday == 1 {
		out = append(out, Nudge{
			Type:          NudgeMotivational,
			Message:       mondayMessage(in.Tier),
			Effectiveness: 0.6,
			Icon:          IconTarget,
			Color:         ColorPositive,
		})
	}

	if weekday == 5 && in.RemainingDays > 0 {
		out = append(out, Nudge{
			Type:          NudgeWeekendPreview,
			Message:       fmt.Sprintf("Heading into the weekend with about %.0f per day to work with.", perDay),
			Effectiveness: 0.7,
			Icon:          IconCalendar,
			Color:         ColorInfo,
		})
	}

	if day >= n.cfg.MonthEndFromDay {
		out = append(out, Nudge{
			Type:          NudgeMonthEndUrgency,
			Message:       fmt.Sprintf("The month is almost over; %.0f left to stretch across %d days.", in.RemainingBudget, in.RemainingDays),
			Effectiveness: 0.8,
			Icon:          IconAlarm,
			Color:         ColorCaution,
		})
	}

	if weekday == 3 {
		out = append(out, Nudge{
			Type:          NudgeMidweekCheckIn,
			Message:       "Midweek check-in: a quick look at the plan now beats a surprise on Sunday.",
			Effectiveness: 0.5,
			Icon:          IconCompass,
			Color:         ColorInfo,
		})
	}

	if weekday >= 6 {
		out = append(out, Nudge{
			Type:          NudgeWeekendAwareness,
			Message:       "Weekends are where budgets slip. Decide what today's treat is before it picks you.",
			Effectiveness: 0.55,
			Icon:          IconSun,
			Color:         ColorCaution,
		})
	}

	if in.RemainingBudget < 0 {
		out = append(out, Nudge{
			Type:          NudgeOverspentAlert,
			Message:       fmt.Sprintf("You are %.0f over plan this month. A few lean days will bring it back.", -in.RemainingBudget),
			Effectiveness: 0.9,
			Icon:          IconAlert,
			Color:         ColorCritical,
		})
	}

	if in.RemainingDays > 0 && perDay < n.cfg.LowDailyFloor {
		out = append(out, Nudge{
			Type:          NudgeLowBudget,
			Message:       fmt.Sprintf("That leaves about %.0f per day. Home cooking weather.", perDay),
			Effectiveness: 0.85,
			Icon:          IconGauge,
			Color:         ColorCaution,
		})
	}

	if in.RemainingDays > 0 {
		comfort := n.baselineDaily(in.Tier) * float64(in.RemainingDays) * n.cfg.SurplusFactor
		if in.RemainingBudget > comfort {
			out = append(out, Nudge{
				Type:          NudgeSurplus,
				Message:       fmt.Sprintf("You are well ahead of plan with %.0f remaining. Move some toward savings or a goal.", in.RemainingBudget),
				Effectiveness: 0.65,
				Icon:          IconSeedling,
				Color:         ColorPositive,
			})
		}
	}

	return out, nil
}

// baselineDaily is the expected comfortable daily spend for a tier,
// used only by messaging rules, never by the redistribution engine.
func (n *Nudger) baselineDaily(tier models.IncomeTier) float64 {
	switch tier {
	case models.TierLow:
		return n.cfg.BaselineDailyLow
	case models.TierLowerMiddle:
		return n.cfg.BaselineDailyLowerMiddle
	case models.TierUpperMiddle:
		return n.cfg.BaselineDailyUpperMiddle
	case models.TierHigh:
		return n.cfg.BaselineDailyHigh
	default:
		return n.cfg.BaselineDailyMiddle
	}
}

func mondayMessage(tier models.IncomeTier) string {
	switch tier {
	case models.TierLow, models.TierLowerMiddle:
		return "New week, clean slate. Small daily wins are what carry this month."
	case models.TierUpperMiddle, models.TierHigh:
		return "New week. The plan has room; point it at what actually matters to you."
	default:
		return "New week, clean slate. Stick to the daily plan and the month takes care of itself."
	}
}
