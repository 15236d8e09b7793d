package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/inbox-ai/internal/platform/logger"
	"github.com/phrazzld/inbox-ai/internal/store"
)

// ResultStore implements store.ResultStore on the operation_results table.
type ResultStore struct {
	db store.DBTX
}

var _ store.ResultStore = (*ResultStore)(nil)

// NewResultStore creates a ResultStore on db.
func NewResultStore(db store.DBTX) *ResultStore {
	return &ResultStore{db: db}
}

const (
	upsertResultQuery = `
		INSERT INTO operation_results (
			operation_id, operation_type, priority, status, output, error,
			queue_time_ms, processing_time_ms, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (operation_id) DO UPDATE SET
			operation_type     = EXCLUDED.operation_type,
			priority           = EXCLUDED.priority,
			status             = EXCLUDED.status,
			output             = EXCLUDED.output,
			error              = EXCLUDED.error,
			queue_time_ms      = EXCLUDED.queue_time_ms,
			processing_time_ms = EXCLUDED.processing_time_ms,
			completed_at       = EXCLUDED.completed_at
	`

	selectResultColumns = `
		SELECT operation_id, operation_type, priority, status, output, error,
		       queue_time_ms, processing_time_ms, completed_at
		FROM operation_results
	`
)

// Save inserts rec, or replaces the stored record with the same operation id.
func (s *ResultStore) Save(ctx context.Context, rec *store.ResultRecord) error {
	log := logger.FromContext(ctx)

	if err := rec.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, upsertResultQuery,
		rec.OperationID,
		rec.OperationType,
		rec.Priority,
		rec.Status,
		rec.Output,
		rec.Error,
		rec.QueueTime.Milliseconds(),
		rec.ProcessingTime.Milliseconds(),
		rec.CompletedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to save operation result",
			"operation_id", rec.OperationID,
			"error", err)
		return store.NewStoreError("operation_result", "save", "upsert failed", MapError(err))
	}

	// an upsert always writes one row; zero means the statement was swallowed
	if err := CheckRowsAffected(result, "operation_result"); err != nil {
		log.Error("operation result upsert wrote no rows",
			"operation_id", rec.OperationID,
			"error", err)
		return store.NewStoreError("operation_result", "save", "no rows written", err)
	}
	return nil
}

// Get returns the record for id, or store.ErrResultNotFound.
func (s *ResultStore) Get(ctx context.Context, id uuid.UUID) (*store.ResultRecord, error) {
	row := s.db.QueryRowContext(ctx, selectResultColumns+" WHERE operation_id = $1", id)

	rec, err := scanResult(row.Scan)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", store.ErrResultNotFound, id)
		}
		return nil, store.NewStoreError("operation_result", "get", "query failed", mapped)
	}
	return rec, nil
}

// ListRecent returns at most limit records, most recently completed first.
func (s *ResultStore) ListRecent(ctx context.Context, limit int) ([]*store.ResultRecord, error) {
	if limit <= 0 {
		return []*store.ResultRecord{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		selectResultColumns+" ORDER BY completed_at DESC, operation_id LIMIT $1", limit)
	if err != nil {
		return nil, store.NewStoreError("operation_result", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	records := make([]*store.ResultRecord, 0, limit)
	for rows.Next() {
		rec, err := scanResult(rows.Scan)
		if err != nil {
			return nil, store.NewStoreError("operation_result", "list", "scan failed", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("operation_result", "list", "iteration failed", MapError(err))
	}
	return records, nil
}

func scanResult(scan func(dest ...any) error) (*store.ResultRecord, error) {
	var (
		rec          store.ResultRecord
		queueMS      int64
		processingMS int64
	)
	if err := scan(
		&rec.OperationID,
		&rec.OperationType,
		&rec.Priority,
		&rec.Status,
		&rec.Output,
		&rec.Error,
		&queueMS,
		&processingMS,
		&rec.CompletedAt,
	); err != nil {
		return nil, err
	}
	rec.QueueTime = time.Duration(queueMS) * time.Millisecond
	rec.ProcessingTime = time.Duration(processingMS) * time.Millisecond
	rec.CompletedAt = rec.CompletedAt.UTC()
	return &rec, nil
}
