package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/inbox-ai/internal/events"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

// ResultRecorder is an events.EventHandler that saves every terminal
// operation result to a store.ResultStore. Other event types are ignored.
type ResultRecorder struct {
	results store.ResultStore
	logger  *slog.Logger
	now     func() time.Time
}

var _ events.EventHandler = (*ResultRecorder)(nil)

// NewResultRecorder creates a recorder writing to results.
func NewResultRecorder(results store.ResultStore, logger *slog.Logger) *ResultRecorder {
	return &ResultRecorder{
		results: results,
		logger:  logger.With("component", "result_recorder"),
		now:     time.Now,
	}
}

// HandleEvent saves the result carried by an operation.result event.
func (r *ResultRecorder) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeOperationResult {
		return nil
	}

	var result task.Result
	if err := event.UnmarshalPayload(&result); err != nil {
		return fmt.Errorf("failed to decode operation result: %w", err)
	}

	rec := RecordFromResult(result, r.now().UTC())
	if err := r.results.Save(ctx, rec); err != nil {
		r.logger.Error("failed to record operation result",
			"error", err,
			"operation_id", result.OperationID)
		return fmt.Errorf("failed to record operation result: %w", err)
	}

	r.logger.Debug("operation result recorded",
		"operation_id", result.OperationID,
		"status", rec.Status)
	return nil
}

// RecordFromResult converts a processor result into its stored form.
func RecordFromResult(result task.Result, completedAt time.Time) *store.ResultRecord {
	return &store.ResultRecord{
		OperationID:    result.OperationID,
		OperationType:  result.OperationType,
		Priority:       result.Priority.String(),
		Status:         string(result.Status.State),
		Output:         result.Output,
		Error:          result.Error,
		QueueTime:      result.Metrics.QueueTime,
		ProcessingTime: result.Metrics.ProcessingTime,
		CompletedAt:    completedAt,
	}
}
