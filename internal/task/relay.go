package task

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/inbox-ai/internal/events"
)

// EventRelay forwards the processor's progress and result streams into an
// events.EventEmitter, so several handlers can observe them.
type EventRelay struct {
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewEventRelay creates a relay publishing to emitter.
func NewEventRelay(emitter events.EventEmitter, logger *slog.Logger) *EventRelay {
	return &EventRelay{
		emitter: emitter,
		logger:  logger.With("component", "event_relay"),
	}
}

// Run forwards events until both streams are closed or ctx is done. Handler
// errors are logged by the emitter and do not stop the relay.
func (r *EventRelay) Run(ctx context.Context, progress <-chan ProgressUpdate, results <-chan Result) error {
	for progress != nil || results != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case update, ok := <-progress:
			if !ok {
				progress = nil
				continue
			}
			r.emit(ctx, events.TypeOperationProgress, update.OperationID, update)

		case result, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			r.emit(ctx, events.TypeOperationResult, result.OperationID, result)
		}
	}

	r.logger.Debug("operation streams closed, relay exiting")
	return nil
}

func (r *EventRelay) emit(ctx context.Context, eventType string, operationID uuid.UUID, payload any) {
	event, err := events.NewEvent(eventType, operationID, payload)
	if err != nil {
		r.logger.Error("failed to build event",
			"error", err,
			"event_type", eventType,
			"operation_id", operationID)
		return
	}
	_ = r.emitter.EmitEvent(ctx, event)
}
