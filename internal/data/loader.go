package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

//go:embed calendar.json
var dataFiles embed.FS

// Calendar resolves named holiday windows and season names from calendar
// rule data. The embedded default covers US-style windows; deployments
// targeting other locales can supply their own rules via Parse.
type Calendar struct {
	holidays []HolidayWindow

	// Lookup structures for efficient access
	seasonByMonth map[time.Month]string
	holidayNames  []string
	seasonNames   []string
}

// HolidayWindow is an inclusive day-of-month range within one month that
// carries a spending pattern of its own.
type HolidayWindow struct {
	Name    string `json:"name"`
	Month   int    `json:"month"`
	FromDay int    `json:"from_day"`
	ToDay   int    `json:"to_day"`
}

// calendarFile is the on-disk structure of calendar.json
type calendarFile struct {
	Holidays []HolidayWindow  `json:"holidays"`
	Seasons  map[string][]int `json:"seasons"`
}

var (
	instance *Calendar
	once     sync.Once
	loadErr  error
)

// Default returns the embedded calendar rules.
// This is thread-safe and will only load data once.
func Default() (*Calendar, error) {
	once.Do(func() {
		raw, err := dataFiles.ReadFile("calendar.json")
		if err != nil {
			loadErr = fmt.Errorf("failed to read calendar.json: %w", err)
			return
		}
		instance, loadErr = Parse(raw)
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return instance, nil
}

// Parse builds a Calendar from raw JSON rules and validates them.
func Parse(raw []byte) (*Calendar, error) {
	var file calendarFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse calendar rules: %w", err)
	}

	c := &Calendar{
		holidays:      file.Holidays,
		seasonByMonth: make(map[time.Month]string, 12),
	}

	for i, h := range file.Holidays {
		if h.Name == "" {
			return nil, fmt.Errorf("holiday window %d has no name", i)
		}
		if h.Month < 1 || h.Month > 12 {
			return nil, fmt.Errorf("holiday %q: month %d out of range", h.Name, h.Month)
		}
		if h.FromDay < 1 || h.ToDay > 31 || h.FromDay > h.ToDay {
			return nil, fmt.Errorf("holiday %q: invalid day range %d-%d", h.Name, h.FromDay, h.ToDay)
		}
		c.holidayNames = append(c.holidayNames, h.Name)
	}

	for season, months := range file.Seasons {
		for _, m := range months {
			if m < 1 || m > 12 {
				return nil, fmt.Errorf("season %q: month %d out of range", season, m)
			}
			if prev, dup := c.seasonByMonth[time.Month(m)]; dup {
				return nil, fmt.Errorf("month %d mapped to both %q and %q", m, prev, season)
			}
			c.seasonByMonth[time.Month(m)] = season
		}
	}
	if len(c.seasonByMonth) != 12 {
		return nil, fmt.Errorf("season mapping covers %d months, need 12", len(c.seasonByMonth))
	}

	seen := make(map[string]bool, len(file.Seasons))
	for _, season := range c.seasonByMonth {
		if !seen[season] {
			seen[season] = true
			c.seasonNames = append(c.seasonNames, season)
		}
	}
	sort.Strings(c.seasonNames)

	return c, nil
}

// Holiday returns the name of the holiday window containing t, if any.
// Windows are checked in rule-file order; the first match wins.
func (c *Calendar) Holiday(t time.Time) (string, bool) {
	month, day := int(t.Month()), t.Day()
	for _, h := range c.holidays {
		if h.Month == month && day >= h.FromDay && day <= h.ToDay {
			return h.Name, true
		}
	}
	return "", false
}

// Season returns the season name for a month.
func (c *Calendar) Season(m time.Month) string {
	return c.seasonByMonth[m]
}

// HolidayNames returns all window names in rule-file order.
func (c *Calendar) HolidayNames() []string {
	return c.holidayNames
}

// SeasonNames returns all season names, sorted.
func (c *Calendar) SeasonNames() []string {
	return c.seasonNames
}

// Windows returns the raw holiday windows, for display.
func (c *Calendar) Windows() []HolidayWindow {
	return c.holidays
}
