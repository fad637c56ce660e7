package temporal

import (
	"math"
	"testing"
	"time"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/data"
	"github.com/teniee/mita-budget-engine/internal/models"
)

func testRules(t *testing.T) CalendarRules {
	t.Helper()
	cal, err := data.Default()
	if err != nil {
		t.Fatalf("Failed to load calendar rules: %v", err)
	}
	return cal
}

func newTestLearner(t *testing.T) *Learner {
	t.Helper()
	return NewLearner(testRules(t), config.DefaultConfig().Temporal)
}

func mkTxn(year int, month time.Month, day int, amount float64) models.Transaction {
	return models.Transaction{
		Date:   time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Amount: amount,
	}
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestLearnEmptyHistory(t *testing.T) {
	p, err := newTestLearner(t).Learn(nil)
	if err != nil {
		t.Fatalf("Learn(nil) returned error: %v", err)
	}

	if p.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", p.Confidence)
	}
	if p.SampleCount != 0 {
		t.Errorf("SampleCount = %d, want 0", p.SampleCount)
	}
	for w := 1; w <= 7; w++ {
		if p.DayOfWeek[w] != 1.0 {
			t.Errorf("DayOfWeek[%d] = %v, want 1.0", w, p.DayOfWeek[w])
		}
	}
	for d := 1; d <= 31; d++ {
		if p.DayOfMonth[d] != 1.0 {
			t.Errorf("DayOfMonth[%d] = %v, want 1.0", d, p.DayOfMonth[d])
		}
	}
	for m := 1; m <= 12; m++ {
		if p.MonthOfYear[m] != 1.0 {
			t.Errorf("MonthOfYear[%d] = %v, want 1.0", m, p.MonthOfYear[m])
		}
	}
	for name, m := range p.Holiday {
		if m != 1.0 {
			t.Errorf("Holiday[%s] = %v, want 1.0", name, m)
		}
	}
	for season, m := range p.Seasonal {
		if m != 1.0 {
			t.Errorf("Seasonal[%s] = %v, want 1.0", season, m)
		}
	}
	if p.WeekendEffect != 1.0 || p.MonthEndEffect != 1.0 || p.PaydayEffect != 1.0 {
		t.Errorf("effects = (%v, %v, %v), want all 1.0",
			p.WeekendEffect, p.MonthEndEffect, p.PaydayEffect)
	}
}

func TestLearnWeekendHeavySpending(t *testing.T) {
	// 2025-06-02 is a Monday, 2025-06-07 the Saturday of the same week.
	var txns []models.Transaction
	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	for week := 0; week < 8; week++ {
		txns = append(txns,
			models.Transaction{Date: monday.AddDate(0, 0, week*7), Amount: 50},
			models.Transaction{Date: monday.AddDate(0, 0, week*7+5), Amount: 150},
		)
	}

	p, err := newTestLearner(t).Learn(txns)
	if err != nil {
		t.Fatalf("Learn returned error: %v", err)
	}

	if p.WeekendEffect <= 1.0 {
		t.Errorf("WeekendEffect = %v, want > 1.0", p.WeekendEffect)
	}
	if p.DayOfWeek[6] <= p.DayOfWeek[1] {
		t.Errorf("DayOfWeek[6] = %v should exceed DayOfWeek[1] = %v",
			p.DayOfWeek[6], p.DayOfWeek[1])
	}

	// baseline = 100, so Saturday = 1.5, Monday = 0.5, contrast = 3.0
	if !approx(p.DayOfWeek[6], 1.5, 1e-9) {
		t.Errorf("DayOfWeek[6] = %v, want 1.5", p.DayOfWeek[6])
	}
	if !approx(p.DayOfWeek[1], 0.5, 1e-9) {
		t.Errorf("DayOfWeek[1] = %v, want 0.5", p.DayOfWeek[1])
	}
	if !approx(p.WeekendEffect, 3.0, 1e-9) {
		t.Errorf("WeekendEffect = %v, want 3.0", p.WeekendEffect)
	}
}

func TestLearnDeterministicUnderReorder(t *testing.T) {
	var txns []models.Transaction
	anchor := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		txns = append(txns, models.Transaction{
			Date:   anchor.AddDate(0, 0, i%75),
			Amount: float64((i*37)%113) + 0.75,
		})
	}

	shuffled := make([]models.Transaction, len(txns))
	copy(shuffled, txns)
	for i, j := 0, len(shuffled)-1; i < j; i, j = i+1, j-1 {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	for i := 0; i+3 < len(shuffled); i += 3 {
		shuffled[i], shuffled[i+3] = shuffled[i+3], shuffled[i]
	}

	l := newTestLearner(t)
	a, err := l.Learn(txns)
	if err != nil {
		t.Fatalf("Learn returned error: %v", err)
	}
	b, err := l.Learn(shuffled)
	if err != nil {
		t.Fatalf("Learn(shuffled) returned error: %v", err)
	}

	for w := 1; w <= 7; w++ {
		if a.DayOfWeek[w] != b.DayOfWeek[w] {
			t.Errorf("DayOfWeek[%d] differs under reorder: %v vs %v", w, a.DayOfWeek[w], b.DayOfWeek[w])
		}
	}
	for d := 1; d <= 31; d++ {
		if a.DayOfMonth[d] != b.DayOfMonth[d] {
			t.Errorf("DayOfMonth[%d] differs under reorder: %v vs %v", d, a.DayOfMonth[d], b.DayOfMonth[d])
		}
	}
	for m := 1; m <= 12; m++ {
		if a.MonthOfYear[m] != b.MonthOfYear[m] {
			t.Errorf("MonthOfYear[%d] differs under reorder: %v vs %v", m, a.MonthOfYear[m], b.MonthOfYear[m])
		}
	}
	for name := range a.Holiday {
		if a.Holiday[name] != b.Holiday[name] {
			t.Errorf("Holiday[%s] differs under reorder: %v vs %v", name, a.Holiday[name], b.Holiday[name])
		}
	}
	for season := range a.Seasonal {
		if a.Seasonal[season] != b.Seasonal[season] {
			t.Errorf("Seasonal[%s] differs under reorder: %v vs %v", season, a.Seasonal[season], b.Seasonal[season])
		}
	}
	if a.WeekendEffect != b.WeekendEffect ||
		a.MonthEndEffect != b.MonthEndEffect ||
		a.PaydayEffect != b.PaydayEffect {
		t.Error("contrast effects differ under reorder")
	}
	if a.Confidence != b.Confidence {
		t.Errorf("Confidence differs under reorder: %v vs %v", a.Confidence, b.Confidence)
	}
}

func TestLearnConfidenceSteps(t *testing.T) {
	tests := []struct {
		samples int
		want    float64
	}{
		{0, 0.0},
		{1, 0.3},
		{9, 0.3},
		{10, 0.6},
		{29, 0.6},
		{30, 0.8},
		{89, 0.8},
		{90, 0.95},
		{250, 0.95},
	}

	l := newTestLearner(t)
	anchor := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		txns := make([]models.Transaction, 0, tt.samples)
		for i := 0; i < tt.samples; i++ {
			txns = append(txns, models.Transaction{
				Date:   anchor.AddDate(0, 0, i%28),
				Amount: 10 + float64(i%5),
			})
		}
		p, err := l.Learn(txns)
		if err != nil {
			t.Fatalf("Learn(%d samples) returned error: %v", tt.samples, err)
		}
		if p.Confidence != tt.want {
			t.Errorf("Confidence(%d samples) = %v, want %v", tt.samples, p.Confidence, tt.want)
		}
	}
}

func TestLearnHolidayWindow(t *testing.T) {
	var txns []models.Transaction
	// Christmas window spending, well above the November baseline days.
	for day := 20; day <= 26; day++ {
		txns = append(txns, mkTxn(2024, time.December, day, 200))
	}
	for day := 4; day <= 13; day++ {
		txns = append(txns, mkTxn(2024, time.November, day, 50))
	}

	p, err := newTestLearner(t).Learn(txns)
	if err != nil {
		t.Fatalf("Learn returned error: %v", err)
	}

	if p.Holiday["christmas_season"] <= 1.0 {
		t.Errorf("Holiday[christmas_season] = %v, want > 1.0", p.Holiday["christmas_season"])
	}
	// Windows with no observations stay neutral.
	if p.Holiday["thanksgiving"] != 1.0 {
		t.Errorf("Holiday[thanksgiving] = %v, want 1.0", p.Holiday["thanksgiving"])
	}
	if p.Holiday["new_year"] != 1.0 {
		t.Errorf("Holiday[new_year] = %v, want 1.0", p.Holiday["new_year"])
	}
}

func TestLearnMonthEndAndPaydayEffects(t *testing.T) {
	var txns []models.Transaction
	for day := 26; day <= 30; day++ {
		txns = append(txns, mkTxn(2025, time.July, day, 150))
	}
	for day := 5; day <= 9; day++ {
		txns = append(txns, mkTxn(2025, time.July, day, 50))
	}
	for day := 15; day <= 17; day++ {
		txns = append(txns, mkTxn(2025, time.July, day, 120))
	}

	p, err := newTestLearner(t).Learn(txns)
	if err != nil {
		t.Fatalf("Learn returned error: %v", err)
	}

	if p.MonthEndEffect <= 1.0 {
		t.Errorf("MonthEndEffect = %v, want > 1.0", p.MonthEndEffect)
	}
	if p.PaydayEffect <= 1.0 {
		t.Errorf("PaydayEffect = %v, want > 1.0", p.PaydayEffect)
	}
}

func TestLearnMultipliersStayPositive(t *testing.T) {
	var txns []models.Transaction
	anchor := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		amount := float64((i * 13) % 90)
		// Every fourth transaction spends nothing at all.
		if i%4 == 0 {
			amount = 0
		}
		txns = append(txns, models.Transaction{
			Date:   anchor.AddDate(0, 0, i%365),
			Amount: amount,
		})
	}

	p, err := newTestLearner(t).Learn(txns)
	if err != nil {
		t.Fatalf("Learn returned error: %v", err)
	}

	for w, m := range p.DayOfWeek {
		if m <= 0 {
			t.Errorf("DayOfWeek[%d] = %v, want > 0", w, m)
		}
	}
	for d, m := range p.DayOfMonth {
		if m <= 0 {
			t.Errorf("DayOfMonth[%d] = %v, want > 0", d, m)
		}
	}
	for mo, m := range p.MonthOfYear {
		if m <= 0 {
			t.Errorf("MonthOfYear[%d] = %v, want > 0", mo, m)
		}
	}
	for name, m := range p.Holiday {
		if m <= 0 {
			t.Errorf("Holiday[%s] = %v, want > 0", name, m)
		}
	}
	for season, m := range p.Seasonal {
		if m <= 0 {
			t.Errorf("Seasonal[%s] = %v, want > 0", season, m)
		}
	}
	if p.WeekendEffect <= 0 || p.MonthEndEffect <= 0 || p.PaydayEffect <= 0 {
		t.Error("contrast effects must stay positive")
	}
}

func TestLearnRejectsCorruptInput(t *testing.T) {
	l := newTestLearner(t)

	_, err := l.Learn([]models.Transaction{{Amount: 10}})
	if err == nil {
		t.Error("Learn accepted a transaction with a zero date")
	}

	_, err = l.Learn([]models.Transaction{mkTxn(2025, time.May, 10, -4)})
	if err == nil {
		t.Error("Learn accepted a negative amount")
	}
}
