package rebalance

import (
	"math"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/models"
)

// Filter rescales raw opportunities for a user's income tier and
// behavioral profile, then prunes moves too small to act on.
type Filter struct {
	cfg config.PolicyConfig
}

// NewFilter creates a filter with the given policy.
func NewFilter(cfg config.PolicyConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Apply scales every opportunity's amount for the tier and optional
// profile, dropping any move whose rescaled absolute amount falls under
// the materiality floor. A nil profile leaves profile scaling as
// identity. The input slice is not modified; day, type, reason and
// priority pass through untouched.
func (f *Filter) Apply(opps []Opportunity, tier models.IncomeTier, profile *models.BehavioralProfile) []Opportunity {
	if len(opps) == 0 {
		return nil
	}

	scale := f.tierScale(tier)
	if profile != nil {
		switch profile.RiskTolerance {
		case models.RiskLow:
			scale *= f.cfg.RiskScaleLow
		case models.RiskHigh:
			scale *= f.cfg.RiskScaleHigh
		}
		if profile.SpendingPersonality == models.PersonalitySpender {
			scale *= f.cfg.SpenderDampener
		}
	}

	kept := make([]Opportunity, 0, len(opps))
	for _, o := range opps {
		o.Amount *= scale
		if math.Abs(o.Amount) < f.cfg.MaterialityMin {
			continue
		}
		kept = append(kept, o)
	}
	return kept
}

// tierScale maps a tier to its amount multiplier. Unknown tiers scale
// like middle so a corrupt profile degrades to identity instead of
// blocking redistribution.
func (f *Filter) tierScale(tier models.IncomeTier) float64 {
	switch tier {
	case models.TierLow:
		return f.cfg.TierScaleLow
	case models.TierLowerMiddle:
		return f.cfg.TierScaleLowerMiddle
	case models.TierUpperMiddle:
		return f.cfg.TierScaleUpperMiddle
	case models.TierHigh:
		return f.cfg.TierScaleHigh
	default:
		return f.cfg.TierScaleMiddle
	}
}
