// Package dispatch implements the idempotency-before-execution protocol
// and bounded-concurrency pipeline dispatch that sits between the webhook
// intake and the per-athlete pipeline orchestrator.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/cyclecoach/engine/internal/logger"
	"github.com/cyclecoach/engine/internal/notify"
	"github.com/cyclecoach/engine/internal/pricing"
	"github.com/cyclecoach/engine/internal/repository"
	"github.com/cyclecoach/engine/internal/webhook"
)

// PipelineRunner runs the full per-athlete pipeline for a validated order
// and returns the resulting athlete ID.
type PipelineRunner interface {
	Run(ctx context.Context, intakeID string, event webhook.Event) (athleteID string, err error)
}

// Dispatcher gates webhook events through idempotency and rate-limit
// checks before handing them to the pipeline, bounding concurrent
// pipeline runs with a weighted semaphore.
type Dispatcher struct {
	idempotency *repository.IdempotencyRepository
	rateLimit   *repository.RateLimitRepository
	orderLog    *repository.OrderLogRepository
	runner      PipelineRunner
	notifier    notify.Notifier
	sem         *semaphore.Weighted
	log         *logger.Logger
	now         func() time.Time
}

// New builds a Dispatcher with the given concurrency cap.
func New(idempotency *repository.IdempotencyRepository, rateLimit *repository.RateLimitRepository,
	orderLog *repository.OrderLogRepository, runner PipelineRunner, notifier notify.Notifier,
	concurrency int64, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		idempotency: idempotency, rateLimit: rateLimit, orderLog: orderLog,
		runner: runner, notifier: notifier, sem: semaphore.NewWeighted(concurrency), log: log,
		now: time.Now,
	}
}

// HandleOrder implements the critical-ordering idempotency protocol:
// check-and-mark under the idempotency store before running the
// pipeline, never after.
func (d *Dispatcher) HandleOrder(ctx context.Context, event webhook.Event) (status string, athleteID string, err error) {
	already, err := d.idempotency.IsProcessed(ctx, event.ID)
	if err != nil {
		return "", "", fmt.Errorf("dispatch: check idempotency: %w", err)
	}
	if already {
		return "duplicate", "", nil
	}

	allowed, err := d.rateLimit.Allow(ctx, event.CustomerDetails.Email, d.now())
	if err != nil {
		return "", "", fmt.Errorf("dispatch: check rate limit: %w", err)
	}
	if !allowed {
		return "rate_limited", "", nil
	}

	marked, err := d.idempotency.MarkProcessed(ctx, event.ID, "", d.now())
	if err != nil {
		return "", "", fmt.Errorf("dispatch: mark processed: %w", err)
	}
	if !marked {
		// Lost the race to a concurrent delivery of the same event.
		return "duplicate", "", nil
	}

	if err := d.orderLog.Insert(ctx, repository.OrderLogEntry{
		EventID: event.ID, ProductType: string(event.Metadata.ProductType),
		Email: notify.MaskEmail(strings.ToLower(event.CustomerDetails.Email)), PriceCents: event.Metadata.PriceCents,
		Weeks: event.Metadata.Weeks, Status: "accepted", CreatedAt: d.now(),
	}); err != nil {
		d.log.Warn("dispatch: order log insert failed", map[string]interface{}{"event_id": event.ID, "error": err})
	}

	if event.Metadata.ProductType != webhook.ProductTrainingPlan {
		d.recordOutcome(ctx, event.ID, "success")
		return "success", "", nil
	}

	if expected := pricing.PriceForWeeks(event.Metadata.Weeks); expected != event.Metadata.PriceCents {
		// The checkout session already captured payment by the time this
		// event arrives, so a mismatch here is a signal to reconcile
		// manually, not grounds for refusing a paid order.
		d.log.Warn("dispatch: price mismatch", map[string]interface{}{
			"event_id": event.ID, "weeks": event.Metadata.Weeks,
			"expected_cents": expected, "charged_cents": event.Metadata.PriceCents,
		})
	}

	if err := d.sem.Acquire(ctx, 1); err != nil {
		return "", "", fmt.Errorf("dispatch: acquire concurrency slot: %w", err)
	}
	defer d.sem.Release(1)

	athleteID, runErr := d.runner.Run(ctx, event.Metadata.IntakeID, event)
	if runErr != nil {
		d.log.Error("dispatch: pipeline run failed", map[string]interface{}{"event_id": event.ID, "error": runErr})
		d.recordOutcome(ctx, event.ID, "failure")
		_ = d.orderLog.UpdateStatus(ctx, event.ID, "failed")
		return "", "", runErr
	}

	d.recordOutcome(ctx, event.ID, "success")
	_ = d.orderLog.UpdateStatus(ctx, event.ID, "delivered")

	if d.notifier != nil {
		msg := notify.PackageReadyMessage(event.CustomerDetails.Email, event.Metadata.AthleteName, athleteID)
		if sendErr := d.notifier.Send(msg); sendErr != nil {
			d.log.Warn("dispatch: delivery notification failed", map[string]interface{}{"athlete_id": athleteID, "error": sendErr})
		}
	}

	return "success", athleteID, nil
}

// HandleRecovery sends an abandoned-checkout recovery email. Callers are
// expected to have already checked for promotional consent and a
// recovery URL — those gates live at the webhook layer, not here.
func (d *Dispatcher) HandleRecovery(ctx context.Context, event webhook.Event) (string, error) {
	if d.notifier == nil {
		return "ignored", nil
	}
	msg := notify.RecoveryMessage(event.CustomerDetails.Email, event.Metadata.RecoveryURL)
	if err := d.notifier.Send(msg); err != nil {
		return "", fmt.Errorf("dispatch: recovery send: %w", err)
	}
	return "recovery_sent", nil
}

func (d *Dispatcher) recordOutcome(ctx context.Context, eventID, outcome string) {
	if err := d.idempotency.RecordOutcome(ctx, eventID, outcome); err != nil {
		d.log.Warn("dispatch: record outcome failed", map[string]interface{}{"event_id": eventID, "error": err})
	}
}
