package generator

import (
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/utils"
)

// Tier, risk, and personality distributions for generated users.
// Tier weights skew toward the middle like real income distributions;
// a minority of users skip the behavioral survey entirely.
var (
	incomeTiers = []models.IncomeTier{
		models.TierLow,
		models.TierLowerMiddle,
		models.TierMiddle,
		models.TierUpperMiddle,
		models.TierHigh,
	}
	tierWeights = []int{
		15, // low
		25, // lower_middle
		35, // middle
		18, // upper_middle
		7,  // high
	}

	riskLevels  = []models.RiskTolerance{models.RiskLow, models.RiskModerate, models.RiskHigh}
	riskWeights = []int{30, 50, 20}

	personalities      = []models.SpendingPersonality{models.PersonalitySaver, models.PersonalityBalanced, models.PersonalitySpender}
	personalityWeights = []int{30, 45, 25}
)

// surveyCompletionRate is the fraction of generated users that carry a
// behavioral profile. The rest exercise the nil-behavior path.
const surveyCompletionRate = 0.8

// ProfileGenerator creates user profiles with realistic tier and
// behavior distributions.
type ProfileGenerator struct {
	rng *utils.Random
}

// NewProfileGenerator creates a new profile generator
func NewProfileGenerator(rng *utils.Random) *ProfileGenerator {
	return &ProfileGenerator{rng: rng}
}

// Tier picks an income tier weighted toward the middle of the range
func (g *ProfileGenerator) Tier() models.IncomeTier {
	idx := g.rng.WeightedPick(tierWeights)
	if idx < 0 {
		return models.TierMiddle
	}
	return incomeTiers[idx]
}

// Behavior draws a behavioral profile, or nil for users who never
// completed the survey
func (g *ProfileGenerator) Behavior() *models.BehavioralProfile {
	if !g.rng.Probability(surveyCompletionRate) {
		return nil
	}

	risk := riskLevels[g.rng.WeightedPick(riskWeights)]
	personality := personalities[g.rng.WeightedPick(personalityWeights)]

	return &models.BehavioralProfile{
		RiskTolerance:       risk,
		SpendingPersonality: personality,
		Impulsivity:         g.rng.Float64Range(0, 1),
	}
}
