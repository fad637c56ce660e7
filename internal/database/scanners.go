// Package database provides MySQL persistence for the budget engine.
//
// FILE: scanners.go
// PURPOSE: Row scanning helper functions for converting database rows to model structs.
//
// KEY FUNCTIONS:
// - scanTransaction: Scans a transaction from sql.Rows
// - scanPlanEntry: Scans a daily plan entry from sql.Rows
// - scanProfileRow: Scans a user profile joined with its behavioral profile
//
// RELATED FILES:
// - queries_transaction.go: Uses scanTransaction
// - queries_plan.go: Uses scanPlanEntry
// - queries_user.go: Uses scanProfileRow
package database

import (
	"database/sql"

	"github.com/teniee/mita-budget-engine/internal/models"
)

func scanTransaction(rows *sql.Rows) (models.Transaction, error) {
	var t models.Transaction

	// Merchant is optional in the schema
	var merchant sql.NullString

	err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Amount, &t.Category, &merchant)
	if err != nil {
		return models.Transaction{}, err
	}

	t.Merchant = merchant.String

	return t, nil
}

func scanPlanEntry(rows *sql.Rows) (models.DailyPlanEntry, error) {
	var e models.DailyPlanEntry
	err := rows.Scan(&e.Day, &e.Limit, &e.Spent)
	if err != nil {
		return models.DailyPlanEntry{}, err
	}
	return e, nil
}

// scanProfileRow scans a users row LEFT JOINed with behavior_profiles.
// The behavioral columns are NULL when the user never completed onboarding,
// in which case Behavior stays nil and downstream filters run as identity.
func scanProfileRow(row *sql.Row) (*models.UserProfile, error) {
	p := &models.UserProfile{}

	var (
		risk        sql.NullString
		personality sql.NullString
		impulsivity sql.NullFloat64
	)

	err := row.Scan(&p.UserID, &p.Tier, &risk, &personality, &impulsivity)
	if err != nil {
		return nil, err
	}

	if risk.Valid || personality.Valid || impulsivity.Valid {
		p.Behavior = &models.BehavioralProfile{
			RiskTolerance:       models.RiskTolerance(risk.String),
			SpendingPersonality: models.SpendingPersonality(personality.String),
			Impulsivity:         impulsivity.Float64,
		}
	}

	return p, nil
}
