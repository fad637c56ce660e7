// Package temporal learns per-period spending multipliers from raw
// transaction history and applies them to daily budgets. Everything here
// is a pure transform: no I/O, no shared state, safe to call from any
// number of goroutines.
package temporal

import "time"

// CalendarRules resolves locale-dependent calendar windows: named holiday
// ranges and the season a month belongs to. The embedded default
// implementation lives in internal/data; tests and other locales can
// substitute their own.
type CalendarRules interface {
	// Holiday returns the holiday window containing t, if any.
	Holiday(t time.Time) (string, bool)

	// Season returns the season name for a month.
	Season(m time.Month) string

	// HolidayNames lists every window the provider knows about.
	HolidayNames() []string

	// SeasonNames lists every season name months map to.
	SeasonNames() []string
}

// SpendingPattern is the learned temporal profile of one user's spending.
// Every multiplier is the ratio of a period's mean spend to the user's
// overall mean spend; periods with no observations stay neutral at 1.0.
// Patterns are recomputed whenever history is resupplied and are never
// persisted by the engine itself; caching is the caller's concern.
type SpendingPattern struct {
	DayOfWeek   map[int]float64    `json:"day_of_week"`   // ISO weekday, Monday=1..Sunday=7
	DayOfMonth  map[int]float64    `json:"day_of_month"`  // 1..31
	MonthOfYear map[int]float64    `json:"month_of_year"` // 1..12
	Holiday     map[string]float64 `json:"holiday"`       // keyed by window name
	Seasonal    map[string]float64 `json:"seasonal"`      // keyed by season name

	// Contrast effects: mean of one group over the mean of its
	// complement (weekend vs. weekday, month-end vs. rest, payday
	// window vs. rest), 1.0 when either group is empty.
	PaydayEffect   float64 `json:"payday_effect"`
	WeekendEffect  float64 `json:"weekend_effect"`
	MonthEndEffect float64 `json:"month_end_effect"`

	// Confidence steps up with sample count; 0 for an empty history.
	Confidence  float64 `json:"confidence"`
	SampleCount int     `json:"sample_count"`
}

// NeutralPattern returns the all-1.0 pattern Learn produces for an empty
// history: neutral everywhere, zero confidence.
func NeutralPattern(rules CalendarRules) *SpendingPattern {
	p := &SpendingPattern{
		DayOfWeek:      make(map[int]float64, 7),
		DayOfMonth:     make(map[int]float64, 31),
		MonthOfYear:    make(map[int]float64, 12),
		Holiday:        make(map[string]float64),
		Seasonal:       make(map[string]float64, 4),
		PaydayEffect:   1.0,
		WeekendEffect:  1.0,
		MonthEndEffect: 1.0,
	}
	for w := 1; w <= 7; w++ {
		p.DayOfWeek[w] = 1.0
	}
	for d := 1; d <= 31; d++ {
		p.DayOfMonth[d] = 1.0
	}
	for m := 1; m <= 12; m++ {
		p.MonthOfYear[m] = 1.0
	}
	for _, name := range rules.HolidayNames() {
		p.Holiday[name] = 1.0
	}
	for _, season := range rules.SeasonNames() {
		p.Seasonal[season] = 1.0
	}
	return p
}

// DayOfWeekMultiplier returns the multiplier for an ISO weekday,
// neutral for periods the pattern never saw.
func (p *SpendingPattern) DayOfWeekMultiplier(weekday int) float64 {
	if m, ok := p.DayOfWeek[weekday]; ok {
		return m
	}
	return 1.0
}

// DayOfMonthMultiplier returns the multiplier for a day of month.
func (p *SpendingPattern) DayOfMonthMultiplier(day int) float64 {
	if m, ok := p.DayOfMonth[day]; ok {
		return m
	}
	return 1.0
}

// MonthMultiplier returns the multiplier for a calendar month.
func (p *SpendingPattern) MonthMultiplier(month time.Month) float64 {
	if m, ok := p.MonthOfYear[int(month)]; ok {
		return m
	}
	return 1.0
}

// HolidayMultiplier returns the multiplier for a named holiday window.
func (p *SpendingPattern) HolidayMultiplier(name string) float64 {
	if m, ok := p.Holiday[name]; ok {
		return m
	}
	return 1.0
}

// SeasonalMultiplier returns the multiplier for a season name.
func (p *SpendingPattern) SeasonalMultiplier(season string) float64 {
	if m, ok := p.Seasonal[season]; ok {
		return m
	}
	return 1.0
}
