package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultRecord is the stored form of a finished operation.
type ResultRecord struct {
	OperationID    uuid.UUID     `json:"operation_id"`
	OperationType  string        `json:"operation_type"`
	Priority       string        `json:"priority"`
	Status         string        `json:"status"`
	Output         string        `json:"output,omitempty"`
	Error          string        `json:"error,omitempty"`
	QueueTime      time.Duration `json:"queue_time"`
	ProcessingTime time.Duration `json:"processing_time"`
	CompletedAt    time.Time     `json:"completed_at"`
}

// Validate checks the fields every store requires.
func (r *ResultRecord) Validate() error {
	if r.OperationID == uuid.Nil {
		return fmt.Errorf("%w: operation id is required", ErrInvalidEntity)
	}
	if r.OperationType == "" {
		return fmt.Errorf("%w: operation type is required", ErrInvalidEntity)
	}
	if r.Status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidEntity)
	}
	if r.CompletedAt.IsZero() {
		return fmt.Errorf("%w: completed_at is required", ErrInvalidEntity)
	}
	return nil
}

// ResultStore persists terminal operation results.
type ResultStore interface {
	// Save stores rec, replacing any record with the same operation id.
	Save(ctx context.Context, rec *ResultRecord) error

	// Get returns the record for id, or ErrResultNotFound.
	Get(ctx context.Context, id uuid.UUID) (*ResultRecord, error)

	// ListRecent returns at most limit records, most recently completed first.
	ListRecent(ctx context.Context, limit int) ([]*ResultRecord, error)
}
