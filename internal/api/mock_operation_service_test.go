package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/inbox-ai/internal/service"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

// mockOperationService is a hand-written service.OperationService.
type mockOperationService struct {
	SubmitFn        func(ctx context.Context, op *task.Operation) (uuid.UUID, error)
	CancelFn        func(ctx context.Context, id uuid.UUID) bool
	StatusFn        func(ctx context.Context, id uuid.UUID) (task.Status, error)
	ResultFn        func(ctx context.Context, id uuid.UUID) (*store.ResultRecord, error)
	RecentResultsFn func(ctx context.Context, limit int) ([]*store.ResultRecord, error)
	StatsFn         func(ctx context.Context) task.Stats

	// LastSubmitted is the operation passed to the most recent Submit call
	LastSubmitted *task.Operation
}

var _ service.OperationService = (*mockOperationService)(nil)

// Submit implements service.OperationService
func (m *mockOperationService) Submit(ctx context.Context, op *task.Operation) (uuid.UUID, error) {
	m.LastSubmitted = op
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, op)
	}
	return op.ID, nil
}

// Cancel implements service.OperationService
func (m *mockOperationService) Cancel(ctx context.Context, id uuid.UUID) bool {
	if m.CancelFn != nil {
		return m.CancelFn(ctx, id)
	}
	return false
}

// Status implements service.OperationService
func (m *mockOperationService) Status(ctx context.Context, id uuid.UUID) (task.Status, error) {
	if m.StatusFn != nil {
		return m.StatusFn(ctx, id)
	}
	return task.Status{}, service.ErrOperationNotFound
}

// Result implements service.OperationService
func (m *mockOperationService) Result(ctx context.Context, id uuid.UUID) (*store.ResultRecord, error) {
	if m.ResultFn != nil {
		return m.ResultFn(ctx, id)
	}
	return nil, service.ErrOperationNotFound
}

// RecentResults implements service.OperationService
func (m *mockOperationService) RecentResults(ctx context.Context, limit int) ([]*store.ResultRecord, error) {
	if m.RecentResultsFn != nil {
		return m.RecentResultsFn(ctx, limit)
	}
	return []*store.ResultRecord{}, nil
}

// Stats implements service.OperationService
func (m *mockOperationService) Stats(ctx context.Context) task.Stats {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return task.Stats{}
}
