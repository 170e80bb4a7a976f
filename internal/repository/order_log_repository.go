package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// OrderLogEntry is one recorded purchase/subscription event.
type OrderLogEntry struct {
	EventID     string
	ProductType string
	AthleteID   string
	Email       string
	PriceCents  int
	Weeks       int
	Status      string
	CreatedAt   time.Time
}

// OrderLogRepository records every webhook-originated order event,
// regardless of product type (training_plan, coaching, consulting all
// pass through this log).
type OrderLogRepository struct {
	db *sql.DB
}

// NewOrderLogRepository creates a new OrderLogRepository.
func NewOrderLogRepository(sqlDB *sql.DB) *OrderLogRepository {
	return &OrderLogRepository{db: sqlDB}
}

// Insert records a new order event.
func (r *OrderLogRepository) Insert(ctx context.Context, e OrderLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_log (event_id, product_type, athlete_id, email, price_cents, weeks, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.ProductType, nullableString(e.AthleteID), e.Email, e.PriceCents, e.Weeks, e.Status, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("orderlog: insert: %w", err)
	}
	return nil
}

// UpdateStatus transitions an order's recorded status (e.g. to "delivered"
// or "failed").
func (r *OrderLogRepository) UpdateStatus(ctx context.Context, eventID, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE order_log SET status = ? WHERE event_id = ?`, status, eventID)
	if err != nil {
		return fmt.Errorf("orderlog: update status: %w", err)
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
