package models

import (
	"fmt"
	"time"
)

// Category classifies where a transaction's money went. Categories are
// free-form upstream; these constants cover the ones the synthetic
// generator emits and the summaries group by.
type Category string

const (
	CategoryGroceries     Category = "groceries"
	CategoryDining        Category = "dining"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryUtilities     Category = "utilities"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

// Transaction is one historical spending record for a user. The engine
// reads Date and Amount; Category and Merchant feed category summaries
// and synthetic data generation.
type Transaction struct {
	// Primary identifier
	ID int64 `db:"id" json:"id"`

	// Owning user
	UserID int64 `db:"user_id" json:"user_id"`

	// Calendar date the money was spent (time-of-day is not used)
	Date time.Time `db:"spent_at" json:"date"`

	// Amount in the user's base currency. Always non-negative: this
	// engine models outflows only, refunds are filtered upstream.
	Amount float64 `db:"amount" json:"amount"`

	Category Category `db:"category" json:"category"`
	Merchant string   `db:"merchant" json:"merchant,omitempty"`
}

// Validate reports upstream integrity violations. A zero date or a
// negative amount is corrupt input and must surface as an error rather
// than be defaulted away.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %d: missing date", t.ID)
	}
	if t.Amount < 0 {
		return fmt.Errorf("transaction %d: negative amount %.2f", t.ID, t.Amount)
	}
	return nil
}

// ISOWeekday returns the weekday of t numbered Monday=1 through Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	return ISOWeekday(t) >= 6
}
