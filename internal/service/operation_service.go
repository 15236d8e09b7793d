package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/inbox-ai/internal/platform/logger"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

// MaxResultLimit caps how many results one RecentResults call may return.
const MaxResultLimit = 100

// Scheduler is the part of *task.Processor the service depends on.
type Scheduler interface {
	Submit(op *task.Operation) (uuid.UUID, error)
	Cancel(id uuid.UUID) bool
	Status(id uuid.UUID) (task.Status, bool)
	Stats() task.Stats
}

// HitRateReporter reports the AI response cache hit rate.
type HitRateReporter interface {
	HitRate() float64
}

// OperationService exposes operation management to the API layer.
type OperationService interface {
	// Submit queues op and returns its id.
	Submit(ctx context.Context, op *task.Operation) (uuid.UUID, error)

	// Cancel removes a queued operation, or marks a running one cancelled.
	Cancel(ctx context.Context, id uuid.UUID) bool

	// Status returns the live status of id, falling back to its recorded result.
	Status(ctx context.Context, id uuid.UUID) (task.Status, error)

	// Result returns the recorded result of a finished operation.
	Result(ctx context.Context, id uuid.UUID) (*store.ResultRecord, error)

	// RecentResults returns up to limit recorded results, newest first.
	RecentResults(ctx context.Context, limit int) ([]*store.ResultRecord, error)

	// Stats returns processor statistics with the cache hit rate filled in.
	Stats(ctx context.Context) task.Stats
}

type operationService struct {
	scheduler Scheduler
	results   store.ResultStore
	cache     HitRateReporter
	logger    *slog.Logger
}

var _ OperationService = (*operationService)(nil)

// NewOperationService creates an OperationService. cache may be nil when
// responses are not cached.
func NewOperationService(
	scheduler Scheduler,
	results store.ResultStore,
	cache HitRateReporter,
	logger *slog.Logger,
) (OperationService, error) {
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if results == nil {
		return nil, errors.New("result store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &operationService{
		scheduler: scheduler,
		results:   results,
		cache:     cache,
		logger:    logger.With("component", "operation_service"),
	}, nil
}

func (s *operationService) Submit(ctx context.Context, op *task.Operation) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id, err := s.scheduler.Submit(op)
	if err != nil {
		if errors.Is(err, task.ErrQueueFull) {
			log.Warn("operation rejected, queue full")
		} else {
			log.Debug("operation rejected", "error", err)
		}
		return uuid.Nil, fmt.Errorf("failed to submit operation: %w", err)
	}

	log.Debug("operation submitted",
		"operation_id", id,
		"operation_type", op.Type.TypeName(),
		"priority", op.Priority.String())
	return id, nil
}

func (s *operationService) Cancel(ctx context.Context, id uuid.UUID) bool {
	cancelled := s.scheduler.Cancel(id)
	logger.FromContextOrDefault(ctx, s.logger).Debug("cancel requested",
		"operation_id", id,
		"cancelled", cancelled)
	return cancelled
}

func (s *operationService) Status(ctx context.Context, id uuid.UUID) (task.Status, error) {
	if status, ok := s.scheduler.Status(id); ok {
		return status, nil
	}

	rec, err := s.results.Get(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return task.Status{}, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
		}
		return task.Status{}, fmt.Errorf("failed to look up operation result: %w", err)
	}
	return statusFromRecord(rec), nil
}

func (s *operationService) Result(ctx context.Context, id uuid.UUID) (*store.ResultRecord, error) {
	rec, err := s.results.Get(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load operation result",
			"error", err,
			"operation_id", id)
		return nil, fmt.Errorf("failed to load operation result: %w", err)
	}
	return rec, nil
}

func (s *operationService) RecentResults(ctx context.Context, limit int) ([]*store.ResultRecord, error) {
	if limit <= 0 || limit > MaxResultLimit {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidLimit, limit, MaxResultLimit)
	}
	records, err := s.results.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list operation results: %w", err)
	}
	return records, nil
}

func (s *operationService) Stats(_ context.Context) task.Stats {
	stats := s.scheduler.Stats()
	if s.cache != nil {
		stats.CacheHitRate = s.cache.HitRate()
	}
	return stats
}

func statusFromRecord(rec *store.ResultRecord) task.Status {
	status := task.Status{State: task.State(rec.Status)}
	switch status.State {
	case task.StateCompleted:
		status.Progress = 1
		status.Result = rec.Output
	case task.StateFailed:
		status.Error = rec.Error
	}
	return status
}
