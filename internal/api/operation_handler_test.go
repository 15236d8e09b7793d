package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/inbox-ai/internal/api/shared"
	"github.com/phrazzld/inbox-ai/internal/service"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

func newOperationRouter(svc service.OperationService) http.Handler {
	h := NewOperationHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/operations", h.Submit)
	r.Get("/api/operations/results", h.RecentResults)
	r.Get("/api/operations/{id}", h.Status)
	r.Delete("/api/operations/{id}", h.Cancel)
	r.Get("/api/operations/{id}/result", h.Result)
	r.Get("/api/stats", h.Stats)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		check      func(t *testing.T, op *task.Operation)
	}{
		{
			name: "summarization",
			body: map[string]interface{}{
				"type":                  "email_summarization",
				"priority":              "high",
				"email_id":              "e-1",
				"content":               "Quarterly numbers attached.",
				"max_length":            80,
				"metadata":              map[string]string{"mailbox": "work"},
				"estimated_duration_ms": 1500,
			},
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, op *task.Operation) {
				assert.Equal(t, task.PriorityHigh, op.Priority)
				assert.Equal(t, task.EmailSummarization{EmailID: "e-1", Content: "Quarterly numbers attached.", MaxLength: 80}, op.Type)
				assert.Equal(t, "work", op.Metadata["mailbox"])
				assert.Equal(t, 1500*time.Millisecond, op.EstimatedDuration)
			},
		},
		{
			name: "batch defaults to normal priority",
			body: map[string]interface{}{
				"type":      "batch_email_processing",
				"email_ids": []string{"a", "b"},
				"operation": "summarize",
			},
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, op *task.Operation) {
				assert.Equal(t, task.PriorityNormal, op.Priority)
				assert.Equal(t, task.BatchEmailProcessing{EmailIDs: []string{"a", "b"}, Operation: "summarize"}, op.Type)
			},
		},
		{
			name: "custom",
			body: map[string]interface{}{
				"type":           "custom",
				"priority":       "Critical",
				"operation_name": "tone_check",
				"prompt":         "Is this polite?",
			},
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, op *task.Operation) {
				assert.Equal(t, task.PriorityCritical, op.Priority)
				assert.Equal(t, "tone_check", op.Type.TypeName())
			},
		},
		{
			name:       "malformed json",
			body:       `{"type": "custom",`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown type",
			body:       map[string]interface{}{"type": "translate", "content": "hola"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing content",
			body:       map[string]interface{}{"type": "email_reply"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown priority",
			body:       map[string]interface{}{"type": "calendar_parsing", "text": "lunch friday", "priority": "urgent"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative estimate",
			body:       map[string]interface{}{"type": "calendar_parsing", "text": "lunch friday", "estimated_duration_ms": -1},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockOperationService{}
			rec := doRequest(t, newOperationRouter(svc), http.MethodPost, "/api/operations", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusAccepted {
				assert.Nil(t, svc.LastSubmitted)
				resp := decodeBody[shared.ErrorResponse](t, rec)
				assert.NotEmpty(t, resp.Error)
				return
			}

			require.NotNil(t, svc.LastSubmitted)
			resp := decodeBody[SubmitOperationResponse](t, rec)
			assert.Equal(t, svc.LastSubmitted.ID, resp.ID)
			assert.Equal(t, task.StateQueued, resp.State)
			tt.check(t, svc.LastSubmitted)
		})
	}
}

func TestSubmit_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"queue full", task.ErrQueueFull, http.StatusServiceUnavailable, "Operation queue is full, retry later"},
		{"invalid operation", task.ErrInvalidOperation, http.StatusBadRequest, "Invalid operation"},
		{"unexpected", errors.New("dial postgres://u:p@db/x"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockOperationService{SubmitFn: func(context.Context, *task.Operation) (uuid.UUID, error) {
				return uuid.Nil, tt.err
			}}
			body := map[string]interface{}{"type": "email_categorization", "content": "hi"}
			rec := doRequest(t, newOperationRouter(svc), http.MethodPost, "/api/operations", body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeBody[shared.ErrorResponse](t, rec)
			assert.Equal(t, tt.wantMessage, resp.Error)
			assert.NotContains(t, rec.Body.String(), "postgres")
		})
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()

	queued := uuid.New()
	svc := &mockOperationService{CancelFn: func(_ context.Context, id uuid.UUID) bool {
		return id == queued
	}}
	router := newOperationRouter(svc)

	rec := doRequest(t, router, http.MethodDelete, "/api/operations/"+queued.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, CancelOperationResponse{ID: queued, Cancelled: true}, decodeBody[CancelOperationResponse](t, rec))

	other := uuid.New()
	rec = doRequest(t, router, http.MethodDelete, "/api/operations/"+other.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[CancelOperationResponse](t, rec).Cancelled)

	rec = doRequest(t, router, http.MethodDelete, "/api/operations/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	running := uuid.New()
	svc := &mockOperationService{StatusFn: func(_ context.Context, id uuid.UUID) (task.Status, error) {
		if id == running {
			return task.Status{State: task.StateProcessing, Progress: 0.5}, nil
		}
		return task.Status{}, service.ErrOperationNotFound
	}}
	router := newOperationRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/api/operations/"+running.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[OperationStatusResponse](t, rec)
	assert.Equal(t, running, resp.ID)
	assert.Equal(t, task.StateProcessing, resp.State)
	assert.InDelta(t, 0.5, resp.Progress, 1e-9)

	rec = doRequest(t, router, http.MethodGet, "/api/operations/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Operation not found", decodeBody[shared.ErrorResponse](t, rec).Error)
}

func TestResult(t *testing.T) {
	t.Parallel()

	completedAt := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	stored := &store.ResultRecord{
		OperationID:    uuid.New(),
		OperationType:  "EmailReply",
		Priority:       "Normal",
		Status:         "completed",
		Output:         "Thanks!\nSounds good.",
		QueueTime:      250 * time.Millisecond,
		ProcessingTime: 2 * time.Second,
		CompletedAt:    completedAt,
	}
	svc := &mockOperationService{ResultFn: func(_ context.Context, id uuid.UUID) (*store.ResultRecord, error) {
		if id == stored.OperationID {
			return stored, nil
		}
		return nil, service.ErrOperationNotFound
	}}
	router := newOperationRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/api/operations/"+stored.OperationID.String()+"/result", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[OperationResultResponse](t, rec)
	assert.Equal(t, stored.Output, resp.Output)
	assert.Equal(t, int64(250), resp.QueueTimeMS)
	assert.Equal(t, int64(2000), resp.ProcessingTimeMS)
	assert.True(t, completedAt.Equal(resp.CompletedAt))

	rec = doRequest(t, router, http.MethodGet, "/api/operations/"+uuid.NewString()+"/result", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecentResults(t *testing.T) {
	t.Parallel()

	var gotLimit int
	svc := &mockOperationService{RecentResultsFn: func(_ context.Context, limit int) ([]*store.ResultRecord, error) {
		gotLimit = limit
		if limit > service.MaxResultLimit {
			return nil, service.ErrInvalidLimit
		}
		return []*store.ResultRecord{
			{OperationID: uuid.New(), OperationType: "Custom", Status: "failed", Error: "rate limited"},
		}, nil
	}}
	router := newOperationRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/api/operations/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultResultLimit, gotLimit)
	resp := decodeBody[OperationResultsResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "rate limited", resp.Results[0].Error)

	rec = doRequest(t, router, http.MethodGet, "/api/operations/results?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)

	rec = doRequest(t, router, http.MethodGet, "/api/operations/results?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/operations/results?limit=many", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	t.Parallel()

	svc := &mockOperationService{StatsFn: func(context.Context) task.Stats {
		return task.Stats{
			TotalOperations:      4,
			SuccessfulOperations: 2,
			FailedOperations:     1,
			TimedOutOperations:   1,
			AvgProcessingTime:    1500 * time.Millisecond,
			CacheHitRate:         0.5,
			OperationsByType:     map[string]int{"EmailSummarization": 4},
		}
	}}

	rec := doRequest(t, newOperationRouter(svc), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[StatsResponse](t, rec)
	assert.Equal(t, 4, resp.TotalOperations)
	assert.Equal(t, 1, resp.TimedOutOperations)
	assert.InDelta(t, 1500.0, resp.AvgProcessingTimeMS, 1e-9)
	assert.InDelta(t, 0.5, resp.CacheHitRate, 1e-9)
	assert.Equal(t, map[string]int{"EmailSummarization": 4}, resp.OperationsByType)
	assert.NotNil(t, resp.OperationsByPriority)
}
