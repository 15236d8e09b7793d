package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events synchronously to handlers registered
// in this process. A handler registered with event types only sees events of
// those types, so the result recorder never pays for progress traffic.
type InMemoryEventEmitter struct {
	subscriptions []subscription
	mu            sync.RWMutex
	logger        *slog.Logger
}

type subscription struct {
	handler EventHandler
	// nil means every type
	types map[string]struct{}
}

func (s subscription) wants(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		subscriptions: make([]subscription, 0),
		logger:        logger.With("component", "event_emitter"),
	}
}

// RegisterHandler adds a handler for subsequent events of the given types, or
// of every type when none are given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, eventTypes ...string) {
	sub := subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = struct{}{}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscriptions = append(e.subscriptions, sub)
	e.logger.Debug("registered event handler",
		"handler_count", len(e.subscriptions),
		"event_types", eventTypes)
}

// EmitEvent delivers event to every subscribed handler in registration order.
// A failing handler does not stop delivery to the others; the first error is
// returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	handlers := make([]EventHandler, 0, len(e.subscriptions))
	for _, sub := range e.subscriptions {
		if sub.wants(event.Type) {
			handlers = append(handlers, sub.handler)
		}
	}
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.Debug("no handlers registered for event",
			"event_id", event.ID,
			"event_type", event.Type,
			"operation_id", event.OperationID)
		return nil
	}

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type,
				"operation_id", event.OperationID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
