package models

import (
	"fmt"
	"time"
)

// DailyPlanEntry is one calendar day of a month's spending plan: how much
// was budgeted for the day and how much has actually been spent. Entries
// are created and updated by the budgeting service; the engine treats
// them as read-only input. Days are unique within a month.
type DailyPlanEntry struct {
	Day   int     `db:"plan_day" json:"day"`
	Spent float64 `db:"spent_amount" json:"spent"`
	Limit float64 `db:"planned_amount" json:"limit"`
}

// Validate reports integrity violations against the month the entry
// belongs to. Negative amounts and out-of-range days come from corrupt
// upstream data, never from correct use.
func (e DailyPlanEntry) Validate(daysInMonth int) error {
	if e.Day < 1 || e.Day > daysInMonth {
		return fmt.Errorf("plan day %d outside 1..%d", e.Day, daysInMonth)
	}
	if e.Spent < 0 {
		return fmt.Errorf("plan day %d: negative spent %.2f", e.Day, e.Spent)
	}
	if e.Limit < 0 {
		return fmt.Errorf("plan day %d: negative limit %.2f", e.Day, e.Limit)
	}
	return nil
}

// PlanMonth anchors a daily plan to a calendar month so plain day numbers
// can be resolved to dates and weekdays.
type PlanMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PlanMonthOf returns the plan month containing t.
func PlanMonthOf(t time.Time) PlanMonth {
	return PlanMonth{Year: t.Year(), Month: t.Month()}
}

// Days returns the number of calendar days in the month.
func (m PlanMonth) Days() int {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// DateOf returns the date of a day number within the month.
func (m PlanMonth) DateOf(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// WeekdayOf returns the ISO weekday (Monday=1..Sunday=7) of a day number.
func (m PlanMonth) WeekdayOf(day int) int {
	return ISOWeekday(m.DateOf(day))
}

// AddMonths returns the plan month n months after m (n may be negative).
func (m PlanMonth) AddMonths(n int) PlanMonth {
	return PlanMonthOf(m.DateOf(1).AddDate(0, n, 0))
}

func (m PlanMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
