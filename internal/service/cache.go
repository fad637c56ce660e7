package service

import (
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/teniee/mita-budget-engine/internal/config"
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/temporal"
)

// PatternCache holds learned spending patterns keyed by user and month.
// Patterns are pure derivations of transaction history, so entries never
// need invalidation on plan writes; new history simply lands under the
// next month's key or is overwritten by a refresh.
type PatternCache struct {
	cache *ristretto.Cache
}

// NewPatternCache creates a pattern cache with the given sizing
func NewPatternCache(cfg config.CacheConfig) (*PatternCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern cache: %w", err)
	}
	return &PatternCache{cache: cache}, nil
}

func patternKey(userID int64, month models.PlanMonth) string {
	return fmt.Sprintf("pattern:%d:%s", userID, month)
}

// Get returns the cached pattern for a user's month, if present
func (c *PatternCache) Get(userID int64, month models.PlanMonth) (*temporal.SpendingPattern, bool) {
	v, ok := c.cache.Get(patternKey(userID, month))
	if !ok {
		return nil, false
	}
	pattern, ok := v.(*temporal.SpendingPattern)
	return pattern, ok
}

// Set stores a pattern and waits for it to become visible, so a lookup
// right after a refresh never recomputes
func (c *PatternCache) Set(userID int64, month models.PlanMonth, pattern *temporal.SpendingPattern) {
	c.cache.Set(patternKey(userID, month), pattern, 1)
	c.cache.Wait()
}

// Drop removes a user's cached pattern for one month
func (c *PatternCache) Drop(userID int64, month models.PlanMonth) {
	c.cache.Del(patternKey(userID, month))
}

// Close releases the cache's internal goroutines
func (c *PatternCache) Close() {
	c.cache.Close()
}
