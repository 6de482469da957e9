// Package favorites persists the trip plans a user saved.
package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ai-trip-planner/internal/planner"
)

// Repository stores favorited trip plans keyed by user and plan id.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Save favorites the plan for the user. Saving a plan id that is already
// favorited replaces the stored copy, so the latest version wins. The
// returned plan carries the favorited timestamp.
func (r *Repository) Save(ctx context.Context, userID string, plan planner.TripPlan) (planner.TripPlan, error) {
	if plan.ID == "" {
		return planner.TripPlan{}, fmt.Errorf("cannot favorite a plan without an id")
	}

	now := r.now().UTC()
	plan.FavoritedAt = &now

	data, err := json.Marshal(plan)
	if err != nil {
		return planner.TripPlan{}, fmt.Errorf("failed to encode trip plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, trip_id, plan_data, favorited_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, trip_id) DO UPDATE SET
			plan_data = excluded.plan_data,
			favorited_at = excluded.favorited_at`,
		userID, plan.ID, string(data), now)
	if err != nil {
		return planner.TripPlan{}, fmt.Errorf("failed to save favorite: %w", err)
	}

	return plan, nil
}

// List returns the user's favorites, most recently saved first.
func (r *Repository) List(ctx context.Context, userID string) ([]planner.TripPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT plan_data FROM favorites
		WHERE user_id = ?
		ORDER BY favorited_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	plans := []planner.TripPlan{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var plan planner.TripPlan
		if err := json.Unmarshal([]byte(data), &plan); err != nil {
			return nil, fmt.Errorf("failed to decode stored trip plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// Delete removes the favorite. Deleting a plan that was never favorited is
// not an error.
func (r *Repository) Delete(ctx context.Context, userID, tripID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND trip_id = ?`, userID, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}
