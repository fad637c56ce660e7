package temporal

import (
	"fmt"
	"sort"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/models"
)

// Learner aggregates transaction history into a SpendingPattern.
type Learner struct {
	rules CalendarRules
	cfg   config.TemporalConfig
}

// NewLearner creates a learner over the given calendar rules and
// temporal settings.
func NewLearner(rules CalendarRules, cfg config.TemporalConfig) *Learner {
	return &Learner{rules: rules, cfg: cfg}
}

// bucket accumulates one period's observations.
type bucket struct {
	sum float64
	n   int
}

func (b *bucket) add(amount float64) {
	b.sum += amount
	b.n++
}

func (b bucket) mean() float64 {
	if b.n == 0 {
		return 0
	}
	return b.sum / float64(b.n)
}

// ratio converts a bucket into a multiplier against the overall baseline.
// Empty buckets, zero baselines and zero-mean buckets all map to neutral:
// learned multipliers stay strictly positive.
func ratio(b bucket, baseline float64) float64 {
	if b.n == 0 || baseline == 0 {
		return 1.0
	}
	m := b.mean()
	if m == 0 {
		return 1.0
	}
	return m / baseline
}

// contrast compares two complementary groups (weekend vs. weekday,
// month-end vs. rest, payday vs. rest), neutral when either is empty.
func contrast(a, b bucket) float64 {
	if a.n == 0 || b.n == 0 {
		return 1.0
	}
	am, bm := a.mean(), b.mean()
	if am == 0 || bm == 0 {
		return 1.0
	}
	return am / bm
}

// Learn computes per-period spending multipliers from raw history. The
// output is bit-identical for any permutation of the input: transactions
// are brought into a canonical order before accumulation so float sums
// never depend on caller ordering, and no result is derived from map
// iteration.
func (l *Learner) Learn(txns []models.Transaction) (*SpendingPattern, error) {
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("learn pattern: %w", err)
		}
	}

	p := NeutralPattern(l.rules)
	if len(txns) == 0 {
		return p, nil
	}

	ordered := make([]models.Transaction, len(txns))
	copy(ordered, txns)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].Amount < ordered[j].Amount
	})

	var (
		total      float64
		byWeekday  [8]bucket  // ISO weekday 1..7
		byMonthDay [32]bucket // day of month 1..31
		byMonth    [13]bucket // month 1..12

		byHoliday = make(map[string]*bucket)
		bySeason  = make(map[string]*bucket)

		weekend, weekday   bucket
		monthEnd, midMonth bucket
		payday, offPayday  bucket
	)

	for _, t := range ordered {
		day := t.Date.Day()
		total += t.Amount

		byWeekday[models.ISOWeekday(t.Date)].add(t.Amount)
		byMonthDay[day].add(t.Amount)
		byMonth[int(t.Date.Month())].add(t.Amount)

		// Holiday buckets only collect transactions inside a window;
		// everything else is excluded rather than bucketed as
		// "no holiday".
		if name, ok := l.rules.Holiday(t.Date); ok {
			b := byHoliday[name]
			if b == nil {
				b = &bucket{}
				byHoliday[name] = b
			}
			b.add(t.Amount)
		}

		season := l.rules.Season(t.Date.Month())
		sb := bySeason[season]
		if sb == nil {
			sb = &bucket{}
			bySeason[season] = sb
		}
		sb.add(t.Amount)

		if models.IsWeekend(t.Date) {
			weekend.add(t.Amount)
		} else {
			weekday.add(t.Amount)
		}
		if day > l.cfg.MonthEndAfter {
			monthEnd.add(t.Amount)
		} else {
			midMonth.add(t.Amount)
		}
		if nearPayday(l.cfg.PaydayWindows, day) {
			payday.add(t.Amount)
		} else {
			offPayday.add(t.Amount)
		}
	}

	baseline := total / float64(len(ordered))

	for w := 1; w <= 7; w++ {
		p.DayOfWeek[w] = ratio(byWeekday[w], baseline)
	}
	for d := 1; d <= 31; d++ {
		p.DayOfMonth[d] = ratio(byMonthDay[d], baseline)
	}
	for m := 1; m <= 12; m++ {
		p.MonthOfYear[m] = ratio(byMonth[m], baseline)
	}
	for _, name := range l.rules.HolidayNames() {
		if b := byHoliday[name]; b != nil {
			p.Holiday[name] = ratio(*b, baseline)
		}
	}
	for _, season := range l.rules.SeasonNames() {
		if b := bySeason[season]; b != nil {
			p.Seasonal[season] = ratio(*b, baseline)
		}
	}

	p.WeekendEffect = contrast(weekend, weekday)
	p.MonthEndEffect = contrast(monthEnd, midMonth)
	p.PaydayEffect = contrast(payday, offPayday)
	p.SampleCount = len(ordered)
	p.Confidence = l.confidence(len(ordered))

	return p, nil
}

// confidence maps a sample count onto the configured step function.
func (l *Learner) confidence(n int) float64 {
	if n == 0 {
		return 0
	}
	for _, band := range l.cfg.ConfidenceBands {
		if n < band.UpTo {
			return band.Score
		}
	}
	return l.cfg.ConfidenceFull
}

// nearPayday reports whether a day-of-month falls in any payday window.
func nearPayday(windows []config.DayWindow, day int) bool {
	for _, w := range windows {
		if w.Contains(day) {
			return true
		}
	}
	return false
}
