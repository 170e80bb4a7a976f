package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// RateLimitWindow and RateLimitMaxSubmissions bound per-email webhook
// submissions: at most 5 in any trailing 24 hours.
const (
	RateLimitWindow          = 24 * time.Hour
	RateLimitMaxSubmissions  = 5
	retentionWindow          = 7 * 24 * time.Hour
)

// RateLimitRepository tracks per-email submission timestamps.
type RateLimitRepository struct {
	db *sql.DB
}

// NewRateLimitRepository creates a new RateLimitRepository.
func NewRateLimitRepository(sqlDB *sql.DB) *RateLimitRepository {
	return &RateLimitRepository{db: sqlDB}
}

// Allow reports whether email may submit at "now", and if so records the
// submission. Pruning and the window start use time.Time.Add with a
// negative duration — never day-of-month arithmetic, which breaks across
// month boundaries.
func (r *RateLimitRepository) Allow(ctx context.Context, email string, now time.Time) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("ratelimit: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rate_limit_submissions WHERE email = ? AND submitted_at < ?`,
		email, now.Add(-retentionWindow).Format(time.RFC3339)); err != nil {
		return false, fmt.Errorf("ratelimit: prune: %w", err)
	}

	var count int
	windowStart := now.Add(-RateLimitWindow).Format(time.RFC3339)
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_limit_submissions WHERE email = ? AND submitted_at >= ?`,
		email, windowStart).Scan(&count); err != nil {
		return false, fmt.Errorf("ratelimit: count window: %w", err)
	}

	if count >= RateLimitMaxSubmissions {
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rate_limit_submissions (email, submitted_at) VALUES (?, ?)`,
		email, now.Format(time.RFC3339)); err != nil {
		return false, fmt.Errorf("ratelimit: insert: %w", err)
	}

	return true, tx.Commit()
}
