// Package database provides MySQL persistence for the budget engine.
//
// FILE: queries_user.go
// PURPOSE: User and behavioral profile operations. Profiles drive the
// constraint filter and the tier-specific nudge wording.
//
// KEY FUNCTIONS:
// - CreateUser: Inserts a user with an income tier
// - GetUserProfile: Retrieves a profile, nil when the user doesn't exist
// - UpsertBehaviorProfile: Writes behavioral survey results
// - ListUserIDs: Retrieves all user IDs for batch refreshes
//
// RELATED FILES:
// - queries.go: Base Queries struct
// - scanners.go: Row scanning utilities
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teniee/mita-budget-engine/internal/models"
)

// CreateUser inserts a new user and returns its ID
func (q *Queries) CreateUser(ctx context.Context, tier models.IncomeTier) (int64, error) {
	if !tier.Valid() {
		return 0, fmt.Errorf("unknown income tier %q", tier)
	}

	res, err := q.pool.ExecContext(ctx,
		`INSERT INTO users (income_tier, created_at) VALUES (?, ?)`,
		tier, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return id, nil
}

// GetUserProfile retrieves a user's profile with its behavioral profile.
// Returns nil if the user doesn't exist. Behavior is nil when the user
// has no behavioral survey on record.
func (q *Queries) GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT u.id, u.income_tier, b.risk_tolerance, b.spending_personality, b.impulsivity
		FROM users u
		LEFT JOIN behavior_profiles b ON b.user_id = u.id
		WHERE u.id = ?`

	row := q.pool.QueryRowContext(ctx, query, userID)
	profile, err := scanProfileRow(row)
	if err == sql.ErrNoRows {
		return nil, nil // Unknown user
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", userID, err)
	}
	return profile, nil
}

// UpsertBehaviorProfile writes a user's behavioral profile, replacing
// any previous one
func (q *Queries) UpsertBehaviorProfile(ctx context.Context, userID int64, behavior models.BehavioralProfile) error {
	_, err := q.pool.ExecContext(ctx, `
		INSERT INTO behavior_profiles (user_id, risk_tolerance, spending_personality, impulsivity, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			risk_tolerance = VALUES(risk_tolerance),
			spending_personality = VALUES(spending_personality),
			impulsivity = VALUES(impulsivity),
			updated_at = VALUES(updated_at)`,
		userID, behavior.RiskTolerance, behavior.SpendingPersonality, behavior.Impulsivity, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert behavior profile: %w", err)
	}
	return nil
}

// ListUserIDs retrieves all user IDs, used by batch pattern refreshes
func (q *Queries) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := q.pool.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
