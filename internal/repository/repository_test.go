package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary SQLite database with the three
// cross-athlete tables this package's repositories cover.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "cyclecoach_repo_test_*.db")
	require.NoError(t, err)
	dbPath := tmpFile.Name()
	tmpFile.Close()

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)

	schema := `
		CREATE TABLE idempotency_keys (
			event_id TEXT PRIMARY KEY,
			athlete_id TEXT NOT NULL,
			processed_at TEXT NOT NULL,
			outcome TEXT NOT NULL DEFAULT 'pending'
		);
		CREATE TABLE rate_limit_submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL,
			submitted_at TEXT NOT NULL
		);
		CREATE TABLE order_log (
			event_id TEXT PRIMARY KEY,
			product_type TEXT NOT NULL,
			athlete_id TEXT,
			email TEXT NOT NULL,
			price_cents INTEGER NOT NULL,
			weeks INTEGER,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`
	_, err = db.Exec(schema)
	require.NoError(t, err)

	return db, func() {
		db.Close()
		os.Remove(dbPath)
	}
}

func TestMarkProcessedOnlyOnce(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewIdempotencyRepository(db)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	first, err := repo.MarkProcessed(context.Background(), "evt-1", "athlete-1", now)
	require.NoError(t, err)
	require.True(t, first)

	second, err := repo.MarkProcessed(context.Background(), "evt-1", "athlete-1", now)
	require.NoError(t, err)
	require.False(t, second)
}

func TestRateLimitAllowsFiveThenRejects(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRateLimitRepository(db)
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < RateLimitMaxSubmissions; i++ {
		ok, err := repo.Allow(context.Background(), "Athlete@Example.com", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.True(t, ok, "submission %d should be allowed", i+1)
	}

	ok, err := repo.Allow(context.Background(), "athlete@example.com", base.Add(6*time.Minute))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRateLimitIndependentAfter26Hours(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRateLimitRepository(db)
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < RateLimitMaxSubmissions; i++ {
		_, err := repo.Allow(context.Background(), "a@b.com", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	ok, err := repo.Allow(context.Background(), "a@b.com", base.Add(26*time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOrderLogInsertAndUpdateStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderLogRepository(db)
	err := repo.Insert(context.Background(), OrderLogEntry{
		EventID: "evt-2", ProductType: "training_plan", Email: "a@b.com",
		PriceCents: 14900, Weeks: 12, Status: "accepted", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(context.Background(), "evt-2", "delivered"))
}
