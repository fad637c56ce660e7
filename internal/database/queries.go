// Package database provides MySQL persistence for the budget engine.
//
// FILE: queries.go
// PURPOSE: Base Queries struct and constructor. This is the entry point for all
// database operations in the engine.
//
// KEY TYPES:
// - Queries: Main struct holding database pool connection
//
// RELATED FILES:
// - queries_user.go: User and behavioral profile operations
// - queries_transaction.go: Transaction history reads and batch inserts
// - queries_plan.go: Daily plan reads, writes, and rebalance deltas
// - scanners.go: Row scanning helper functions
package database

import (
	"context"
	"fmt"
)

// Queries provides database operations for the budget engine
type Queries struct {
	pool *Pool
}

// NewQueries creates a new Queries instance
func NewQueries(pool *Pool) *Queries {
	return &Queries{pool: pool}
}

// WipeAll deletes all engine data, child tables first. Used by the
// seeder's --wipe flag; there is deliberately no partial variant.
func (q *Queries) WipeAll(ctx context.Context) error {
	tables := []string{"rebalance_log", "daily_plan", "transactions", "behavior_profiles", "users"}
	for _, table := range tables {
		if _, err := q.pool.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to wipe %s: %w", table, err)
		}
	}
	return nil
}
