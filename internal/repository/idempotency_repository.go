// Package repository provides database repository implementations for the
// cross-athlete stores: idempotency keys, per-email rate limiting, and the
// order log. Per-athlete pipeline documents live in internal/docstore
// instead — these three are the only state that spans athletes.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// IdempotencyRepository guards against double-processing a webhook event.
type IdempotencyRepository struct {
	db *sql.DB
}

// NewIdempotencyRepository creates a new IdempotencyRepository.
func NewIdempotencyRepository(sqlDB *sql.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: sqlDB}
}

// MarkProcessed records eventID as processed for athleteID, returning
// false (no error) if the event was already marked — this is the
// critical section that must run before pipeline execution, not after.
func (r *IdempotencyRepository) MarkProcessed(ctx context.Context, eventID, athleteID string, at time.Time) (marked bool, err error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO idempotency_keys (event_id, athlete_id, processed_at, outcome) VALUES (?, ?, ?, 'pending')
		 ON CONFLICT(event_id) DO NOTHING`,
		eventID, athleteID, at.Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("idempotency: mark processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("idempotency: rows affected: %w", err)
	}
	return n > 0, nil
}

// IsProcessed reports whether eventID has already been recorded.
func (r *IdempotencyRepository) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM idempotency_keys WHERE event_id = ?`, eventID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("idempotency: check processed: %w", err)
	}
	return count > 0, nil
}

// RecordOutcome updates an already-marked event with its final outcome
// ("success" or "failure"). A failure is never unmarked — replay is a
// manual operator action, not automatic.
func (r *IdempotencyRepository) RecordOutcome(ctx context.Context, eventID, outcome string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE idempotency_keys SET outcome = ? WHERE event_id = ?`, outcome, eventID)
	if err != nil {
		return fmt.Errorf("idempotency: record outcome: %w", err)
	}
	return nil
}
