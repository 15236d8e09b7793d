package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/inbox-ai/internal/platform/postgres"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/testdb"
)

// openTestDB connects to the test database and applies migrations, or skips.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return testdb.Open(t, func(ctx context.Context, db *sql.DB) error {
		return postgres.Migrate(ctx, db, logger)
	})
}

func newRecord(completedAt time.Time) *store.ResultRecord {
	return &store.ResultRecord{
		OperationID:    uuid.New(),
		OperationType:  "EmailSummarization",
		Priority:       "normal",
		Status:         "completed",
		Output:         "summary",
		QueueTime:      120 * time.Millisecond,
		ProcessingTime: 1500 * time.Millisecond,
		CompletedAt:    completedAt,
	}
}

func TestResultStore_SaveAndGet(t *testing.T) {
	db := openTestDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		results := postgres.NewResultStore(tx)

		rec := newRecord(time.Now().UTC().Truncate(time.Millisecond))
		require.NoError(t, results.Save(ctx, rec))

		got, err := results.Get(ctx, rec.OperationID)
		require.NoError(t, err)
		assert.Equal(t, rec.OperationID, got.OperationID)
		assert.Equal(t, rec.Output, got.Output)
		assert.Equal(t, rec.QueueTime, got.QueueTime)
		assert.Equal(t, rec.ProcessingTime, got.ProcessingTime)
		assert.True(t, rec.CompletedAt.Equal(got.CompletedAt))

		rec.Status = "failed"
		rec.Output = ""
		rec.Error = "provider unavailable"
		require.NoError(t, results.Save(ctx, rec), "saving the same id should replace the record")

		got, err = results.Get(ctx, rec.OperationID)
		require.NoError(t, err)
		assert.Equal(t, "failed", got.Status)
		assert.Equal(t, "provider unavailable", got.Error)
	})
}

func TestResultStore_GetMissing(t *testing.T) {
	db := openTestDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := postgres.NewResultStore(tx).Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrResultNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestResultStore_ListRecent(t *testing.T) {
	db := openTestDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		results := postgres.NewResultStore(tx)

		// Far-future timestamps keep rows saved by other runs out of the top three.
		base := time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)
		var ids []uuid.UUID
		for i := 0; i < 4; i++ {
			rec := newRecord(base.Add(time.Duration(i) * time.Minute))
			require.NoError(t, results.Save(ctx, rec))
			ids = append(ids, rec.OperationID)
		}

		recent, err := results.ListRecent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		assert.Equal(t, ids[3], recent[0].OperationID)
		assert.Equal(t, ids[2], recent[1].OperationID)
		assert.Equal(t, ids[1], recent[2].OperationID)

		none, err := results.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestResultStore_SaveRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	// Validation happens before any query, so no database is needed.
	results := postgres.NewResultStore(nil)
	err := results.Save(context.Background(), &store.ResultRecord{})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

type execOnlyDB struct {
	store.DBTX
	result sql.Result
	err    error
}

func (db execOnlyDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return db.result, db.err
}

func TestResultStore_SaveChecksRowsWritten(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := newRecord(time.Now().UTC())

	err := postgres.NewResultStore(execOnlyDB{result: fakeResult{rows: 1}}).Save(ctx, rec)
	require.NoError(t, err)

	err = postgres.NewResultStore(execOnlyDB{result: fakeResult{rows: 0}}).Save(ctx, rec)
	require.Error(t, err)
	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "save", storeErr.Operation)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResultStore_SaveMapsConstraintErrors(t *testing.T) {
	t.Parallel()

	db := execOnlyDB{err: newPgError("23514")}
	err := postgres.NewResultStore(db).Save(context.Background(), newRecord(time.Now().UTC()))

	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Contains(t, err.Error(), "operation_results_queue_time_ms_check")
}
