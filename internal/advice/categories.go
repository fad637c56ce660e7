package advice

import (
	"fmt"
	"sort"

	"github.com/teniee/mita-budget-engine/internal/models"
)

// CategoryShare is one category's slice of total spending over a
// transaction set.
type CategoryShare struct {
	Category models.Category `json:"category"`
	Total    float64         `json:"total"`
	Share    float64         `json:"share"`
	Count    int             `json:"count"`
}

// SummarizeCategories totals validated transactions per category and
// returns each category's share of overall spend, largest first, ties
// broken by category name so output is stable. Uncategorized
// transactions fall into the "other" bucket.
func SummarizeCategories(txns []models.Transaction) ([]CategoryShare, error) {
	if len(txns) == 0 {
		return nil, nil
	}

	totals := make(map[models.Category]*CategoryShare)
	var overall float64
	for i, t := range txns {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("summarize categories: transaction %d: %w", i, err)
		}
		cat := t.Category
		if cat == "" {
			cat = models.CategoryOther
		}
		s, ok := totals[cat]
		if !ok {
			s = &CategoryShare{Category: cat}
			totals[cat] = s
		}
		s.Total += t.Amount
		s.Count++
		overall += t.Amount
	}

	out := make([]CategoryShare, 0, len(totals))
	for _, s := range totals {
		if overall > 0 {
			s.Share = s.Total / overall
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
