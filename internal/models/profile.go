package models

import "fmt"

// IncomeTier is an ordered income classifier supplied by onboarding.
// Ordering matters: low < lower_middle < middle < upper_middle < high.
type IncomeTier string

const (
	TierLow         IncomeTier = "low"
	TierLowerMiddle IncomeTier = "lower_middle"
	TierMiddle      IncomeTier = "middle"
	TierUpperMiddle IncomeTier = "upper_middle"
	TierHigh        IncomeTier = "high"
)

var tierRanks = map[IncomeTier]int{
	TierLow:         0,
	TierLowerMiddle: 1,
	TierMiddle:      2,
	TierUpperMiddle: 3,
	TierHigh:        4,
}

// Valid reports whether the tier is one of the five known values.
func (t IncomeTier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

// Rank returns the tier's position in the low..high ordering, -1 for
// unknown tiers.
func (t IncomeTier) Rank() int {
	if r, ok := tierRanks[t]; ok {
		return r
	}
	return -1
}

// ParseIncomeTier converts a raw string into a known tier.
func ParseIncomeTier(s string) (IncomeTier, error) {
	t := IncomeTier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown income tier %q", s)
	}
	return t, nil
}

// RiskTolerance describes how much budget volatility a user accepts.
type RiskTolerance string

const (
	RiskLow      RiskTolerance = "low"
	RiskModerate RiskTolerance = "moderate"
	RiskHigh     RiskTolerance = "high"
)

// SpendingPersonality is the onboarding classification of spending style.
type SpendingPersonality string

const (
	PersonalitySaver    SpendingPersonality = "saver"
	PersonalityBalanced SpendingPersonality = "balanced"
	PersonalitySpender  SpendingPersonality = "spender"
)

// BehavioralProfile captures the optional behavioral answers from
// onboarding. It only ever scales redistribution amounts; it never feeds
// back into learned temporal patterns.
type BehavioralProfile struct {
	RiskTolerance       RiskTolerance       `db:"risk_tolerance" json:"risk_tolerance"`
	SpendingPersonality SpendingPersonality `db:"spending_personality" json:"spending_personality"`

	// Impulsivity in [0,1], carried for presentation; no engine rule
	// reads it today.
	Impulsivity float64 `db:"impulsivity" json:"impulsivity"`
}

// UserProfile is the profile service's view of one user: the income tier
// is always present, the behavioral profile may be absent when the user
// skipped that part of onboarding.
type UserProfile struct {
	UserID   int64              `db:"user_id" json:"user_id"`
	Tier     IncomeTier         `db:"income_tier" json:"income_tier"`
	Behavior *BehavioralProfile `json:"behavior,omitempty"`
}
