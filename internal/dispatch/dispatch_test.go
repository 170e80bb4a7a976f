package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/database"
	"github.com/cyclecoach/engine/internal/logger"
	"github.com/cyclecoach/engine/internal/repository"
	"github.com/cyclecoach/engine/internal/webhook"
)

type fakeRunner struct {
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, intakeID string, event webhook.Event) (string, error) {
	f.calls++
	return "athlete-xyz", nil
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakeRunner, func()) {
	t.Helper()
	db, cleanup, err := database.OpenTemp("../../migrations")
	require.NoError(t, err)

	runner := &fakeRunner{}
	d := New(
		repository.NewIdempotencyRepository(db),
		repository.NewRateLimitRepository(db),
		repository.NewOrderLogRepository(db),
		runner, nil, 4, logger.New(logger.LevelError),
	)
	return d, runner, cleanup
}

func TestHandleOrderRunsPipelineOnceForDuplicateEvent(t *testing.T) {
	d, runner, cleanup := newTestDispatcher(t)
	defer cleanup()

	event := webhook.Event{
		ID: "evt-dup", Type: "checkout.session.completed",
		CustomerDetails: webhook.CustomerDetails{Email: "a@b.com"},
		Metadata:        webhook.Metadata{ProductType: webhook.ProductTrainingPlan, IntakeID: "intake-1"},
	}

	status1, athlete1, err := d.HandleOrder(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "success", status1)
	require.Equal(t, "athlete-xyz", athlete1)

	status2, _, err := d.HandleOrder(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "duplicate", status2)

	require.Equal(t, 1, runner.calls)
}

func TestHandleOrderNonTrainingPlanSkipsPipeline(t *testing.T) {
	d, runner, cleanup := newTestDispatcher(t)
	defer cleanup()

	event := webhook.Event{
		ID: "evt-coaching", CustomerDetails: webhook.CustomerDetails{Email: "c@d.com"},
		Metadata: webhook.Metadata{ProductType: webhook.ProductCoaching},
	}

	status, _, err := d.HandleOrder(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "success", status)
	require.Equal(t, 0, runner.calls)
}
