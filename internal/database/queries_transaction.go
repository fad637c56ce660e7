// Package database provides MySQL persistence for the budget engine.
//
// FILE: queries_transaction.go
// PURPOSE: Transaction history reads and batch inserts. History feeds the
// temporal pattern learner and the category summaries; batch inserts are
// used by the synthetic seeder.
//
// KEY FUNCTIONS:
// - ListTransactions: Retrieves a user's transactions in a date range
// - CountTransactions: Counts a user's stored transactions
// - InsertTransactionBatch: Inserts generated history in one transaction
//
// RELATED FILES:
// - queries.go: Base Queries struct
// - queries_plan.go: Daily plan operations
// - scanners.go: Row scanning utilities
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/teniee/mita-budget-engine/internal/models"
)

// ListTransactions retrieves a user's transactions with spent_at in [from, to],
// oldest first. The pattern learner sorts its input again before bucketing, so
// the ordering here is for readability of exports, not a correctness requirement.
func (q *Queries) ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, spent_at, amount, category, merchant
		FROM transactions
		WHERE user_id = ? AND spent_at >= ? AND spent_at <= ?
		ORDER BY spent_at, id`

	rows, err := q.pool.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// CountTransactions returns how many transactions are stored for a user
func (q *Queries) CountTransactions(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := q.pool.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// InsertTransactionBatch inserts a batch of transactions atomically.
// Used by the seeder, where a partially written month of history would
// skew every multiplier the learner derives from it.
func (q *Queries) InsertTransactionBatch(ctx context.Context, userID int64, txns []models.Transaction) (int64, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := q.pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (user_id, spent_at, amount, category, merchant)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("refusing batch: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, userID, t.Date.Format("2006-01-02"), t.Amount, t.Category, t.Merchant); err != nil {
			return 0, fmt.Errorf("failed to insert transaction on %s: %w", t.Date.Format("2006-01-02"), err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction batch: %w", err)
	}

	return inserted, nil
}
