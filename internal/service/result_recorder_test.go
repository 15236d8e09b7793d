package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/inbox-ai/internal/events"
	"github.com/phrazzld/inbox-ai/internal/mocks"
	"github.com/phrazzld/inbox-ai/internal/service"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

func TestRecordFromResult(t *testing.T) {
	t.Parallel()

	completedAt := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	result := task.Result{
		OperationID:   uuid.New(),
		OperationType: "EmailReply",
		Priority:      task.PriorityHigh,
		Status:        task.Status{State: task.StateTimedOut},
		Error:         "operation timed out after 30s",
		Metrics: task.Metrics{
			QueueTime:      20 * time.Millisecond,
			ProcessingTime: 30 * time.Second,
		},
	}

	rec := service.RecordFromResult(result, completedAt)
	assert.Equal(t, &store.ResultRecord{
		OperationID:    result.OperationID,
		OperationType:  "EmailReply",
		Priority:       "High",
		Status:         "timed_out",
		Error:          "operation timed out after 30s",
		QueueTime:      20 * time.Millisecond,
		ProcessingTime: 30 * time.Second,
		CompletedAt:    completedAt,
	}, rec)
}

func TestResultRecorder_SavesResultEvents(t *testing.T) {
	t.Parallel()

	results := store.NewMemoryResultStore(10)
	recorder := service.NewResultRecorder(results, testLogger())

	result := task.Result{
		OperationID:   uuid.New(),
		OperationType: "EmailSummarization",
		Priority:      task.PriorityNormal,
		Status:        task.Status{State: task.StateCompleted, Progress: 1, Result: "short"},
		Output:        "short",
	}
	event, err := events.NewEvent(events.TypeOperationResult, result.OperationID, result)
	require.NoError(t, err)

	require.NoError(t, recorder.HandleEvent(context.Background(), event))

	rec, err := results.Get(context.Background(), result.OperationID)
	require.NoError(t, err)
	assert.Equal(t, "completed", rec.Status)
	assert.Equal(t, "short", rec.Output)
	assert.False(t, rec.CompletedAt.IsZero())
}

func TestResultRecorder_IgnoresProgressEvents(t *testing.T) {
	t.Parallel()

	results := store.NewMemoryResultStore(10)
	recorder := service.NewResultRecorder(results, testLogger())

	id := uuid.New()
	event, err := events.NewEvent(events.TypeOperationProgress, id, task.ProgressUpdate{OperationID: id})
	require.NoError(t, err)

	require.NoError(t, recorder.HandleEvent(context.Background(), event))
	_, err = results.Get(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrResultNotFound)
}

func TestResultRecorder_Errors(t *testing.T) {
	t.Parallel()

	t.Run("undecodable payload", func(t *testing.T) {
		t.Parallel()
		recorder := service.NewResultRecorder(store.NewMemoryResultStore(10), testLogger())
		err := recorder.HandleEvent(context.Background(), &events.Event{
			Type:    events.TypeOperationResult,
			Payload: []byte(`"not an object"`),
		})
		assert.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		failure := errors.New("disk full")
		recorder := service.NewResultRecorder(failingStore{err: failure}, testLogger())

		result := task.Result{
			OperationID:   uuid.New(),
			OperationType: "Custom",
			Status:        task.Status{State: task.StateCompleted},
		}
		event, err := events.NewEvent(events.TypeOperationResult, result.OperationID, result)
		require.NoError(t, err)
		assert.ErrorIs(t, recorder.HandleEvent(context.Background(), event), failure)
	})
}

// TestPipeline wires a real processor through the relay and emitter into the
// recorder, then reads the outcome back through the service.
func TestPipeline_ResultsReachHistory(t *testing.T) {
	t.Parallel()

	cfg := task.DefaultConfig()
	cfg.IdlePollInterval = 5 * time.Millisecond
	cfg.StatsRefreshInterval = 10 * time.Millisecond
	cfg.OperationTimeout = 2 * time.Second

	ai := &mocks.MockAIService{Summary: "the gist"}
	processor := task.NewProcessor(cfg, ai, testLogger())

	results := store.NewMemoryResultStore(10)
	emitter := events.NewInMemoryEventEmitter(testLogger())
	emitter.RegisterHandler(service.NewResultRecorder(results, testLogger()))

	progress, resultStream := processor.Start()
	relayDone := make(chan error, 1)
	go func() {
		relayDone <- task.NewEventRelay(emitter, testLogger()).Run(context.Background(), progress, resultStream)
	}()

	svc := newService(t, processor, results, nil)

	id, err := svc.Submit(context.Background(), summarization())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := svc.Result(context.Background(), id)
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	rec, err := svc.Result(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "completed", rec.Status)
	assert.Equal(t, "the gist", rec.Output)

	status, err := svc.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, task.StateCompleted, status.State)
	assert.Equal(t, "the gist", status.Result)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, processor.Shutdown(ctx))
	require.NoError(t, <-relayDone)
}
