// Package profile keeps a lightweight memory of each user's past trip
// choices, surfaced back into prompts as a one-line preference summary.
package profile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ai-trip-planner/internal/planner"
)

// Only the most recent choices shape the summary; older ones age out.
const maxEntries = 5

// Repository stores per-user trip choice summaries.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// SaveTripChoice records that the user settled on this plan. The stored
// summary is a single sentence describing duration, destination, transport
// mode and base cost.
func (r *Repository) SaveTripChoice(ctx context.Context, userID string, trip planner.TripPlan) error {
	summary := fmt.Sprintf("uma viagem de %d dias para %s usando %s, com um custo base de aproximadamente %v BRL",
		trip.DurationDays, trip.DestinationName, trip.TransportationDetails.Mode, trip.BaseCost)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile_entries (user_id, summary, created_at)
		VALUES (?, ?, ?)`,
		userID, summary, r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save trip choice: %w", err)
	}
	return nil
}

// Summary returns the user's preference line built from the newest entries,
// or "" when the user has no history yet.
func (r *Repository) Summary(ctx context.Context, userID string) (string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT summary FROM profile_entries
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, maxEntries)
	if err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}
	defer rows.Close()

	var summaries []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return "", err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if len(summaries) == 0 {
		return "", nil
	}
	return fmt.Sprintf("As preferências anteriores do usuário são: %s.", strings.Join(summaries, "; ")), nil
}
