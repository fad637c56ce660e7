// Package database provides MySQL persistence for the budget engine.
//
// FILE: queries_plan.go
// PURPOSE: Daily plan reads and writes, including the transactional
// application of rebalance deltas with an audit trail in rebalance_log.
//
// KEY FUNCTIONS:
// - MonthPlan: Retrieves a user's plan entries for one month
// - ReplaceMonthPlan: Atomically replaces a month's plan
// - ApplyPlanDeltas: Applies rebalance deltas and logs them under a batch ID
// - RebalanceHistory: Retrieves logged rebalance batches for a month
//
// RELATED FILES:
// - queries.go: Base Queries struct
// - queries_transaction.go: Transaction history operations
// - scanners.go: Row scanning utilities
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teniee/mita-budget-engine/internal/models"
)

// MonthPlan retrieves a user's daily plan entries for one month, ordered by day.
// A month with no plan returns an empty slice, not an error.
func (q *Queries) MonthPlan(ctx context.Context, userID int64, month models.PlanMonth) ([]models.DailyPlanEntry, error) {
	query := `
		SELECT plan_day, planned_amount, spent_amount
		FROM daily_plan
		WHERE user_id = ? AND plan_year = ? AND plan_month = ?
		ORDER BY plan_day`

	rows, err := q.pool.QueryContext(ctx, query, userID, month.Year, int(month.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to query plan %s: %w", month, err)
	}
	defer rows.Close()

	var entries []models.DailyPlanEntry
	for rows.Next() {
		e, err := scanPlanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplaceMonthPlan atomically replaces a user's plan for one month.
// Used by the seeder and by simulate, which regenerate whole months.
func (q *Queries) ReplaceMonthPlan(ctx context.Context, userID int64, month models.PlanMonth, entries []models.DailyPlanEntry) error {
	days := month.Days()
	for _, e := range entries {
		if err := e.Validate(days); err != nil {
			return fmt.Errorf("refusing plan %s: %w", month, err)
		}
	}

	tx, err := q.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM daily_plan WHERE user_id = ? AND plan_year = ? AND plan_month = ?`,
		userID, month.Year, int(month.Month),
	)
	if err != nil {
		return fmt.Errorf("failed to clear plan %s: %w", month, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_plan (user_id, plan_year, plan_month, plan_day, planned_amount, spent_amount)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare plan insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, userID, month.Year, int(month.Month), e.Day, e.Limit, e.Spent); err != nil {
			return fmt.Errorf("failed to insert plan day %d: %w", e.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan %s: %w", month, err)
	}
	return nil
}

// PlanDelta is one budget shift to apply to a future day's limit
type PlanDelta struct {
	Day    int     `json:"day"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// RebalanceReceipt summarizes an applied batch of plan deltas
type RebalanceReceipt struct {
	BatchID      string  `json:"batch_id"`
	Applied      int     `json:"applied"`
	Skipped      int     `json:"skipped"`
	TotalShifted float64 `json:"total_shifted"`
}

// ApplyPlanDeltas applies a batch of rebalance deltas to a user's plan in a
// single transaction, logging every applied delta to rebalance_log under one
// batch ID. Deltas that reference a missing plan day, or that would push a
// day's limit below zero, are skipped rather than failing the batch.
func (q *Queries) ApplyPlanDeltas(ctx context.Context, userID int64, month models.PlanMonth, deltas []PlanDelta) (*RebalanceReceipt, error) {
	receipt := &RebalanceReceipt{BatchID: uuid.NewString()}
	if len(deltas) == 0 {
		return receipt, nil
	}

	tx, err := q.pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the month's plan rows so concurrent rebalances serialize
	rows, err := tx.QueryContext(ctx, `
		SELECT plan_day, planned_amount
		FROM daily_plan
		WHERE user_id = ? AND plan_year = ? AND plan_month = ?
		FOR UPDATE`,
		userID, month.Year, int(month.Month),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock plan %s: %w", month, err)
	}

	limits := make(map[int]float64)
	for rows.Next() {
		var day int
		var limit float64
		if err := rows.Scan(&day, &limit); err != nil {
			rows.Close()
			return nil, err
		}
		limits[day] = limit
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	now := time.Now()

	for _, d := range deltas {
		limit, ok := limits[d.Day]
		if !ok {
			receipt.Skipped++
			continue
		}
		newLimit := limit + d.Amount
		if newLimit < 0 {
			receipt.Skipped++
			continue
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE daily_plan
			SET planned_amount = ?, updated_at = ?
			WHERE user_id = ? AND plan_year = ? AND plan_month = ? AND plan_day = ?`,
			newLimit, now, userID, month.Year, int(month.Month), d.Day,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update plan day %d: %w", d.Day, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO rebalance_log (batch_id, user_id, plan_year, plan_month, plan_day, amount, reason, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			receipt.BatchID, userID, month.Year, int(month.Month), d.Day, d.Amount, d.Reason, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to log delta for day %d: %w", d.Day, err)
		}

		limits[d.Day] = newLimit
		receipt.Applied++
		receipt.TotalShifted += d.Amount
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rebalance: %w", err)
	}

	return receipt, nil
}

// RebalanceLogEntry is one logged plan delta
type RebalanceLogEntry struct {
	BatchID   string    `json:"batch_id"`
	Day       int       `json:"day"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// RebalanceHistory retrieves the logged deltas for a user's month,
// newest batch first
func (q *Queries) RebalanceHistory(ctx context.Context, userID int64, month models.PlanMonth) ([]RebalanceLogEntry, error) {
	query := `
		SELECT batch_id, plan_day, amount, reason, created_at
		FROM rebalance_log
		WHERE user_id = ? AND plan_year = ? AND plan_month = ?
		ORDER BY created_at DESC, plan_day`

	rows, err := q.pool.QueryContext(ctx, query, userID, month.Year, int(month.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to query rebalance log: %w", err)
	}
	defer rows.Close()

	var entries []RebalanceLogEntry
	for rows.Next() {
		var e RebalanceLogEntry
		if err := rows.Scan(&e.BatchID, &e.Day, &e.Amount, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
