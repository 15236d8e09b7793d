package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

// Operation type names accepted by the submit endpoint.
const (
	OpEmailSummarization   = "email_summarization"
	OpEmailReply           = "email_reply"
	OpEmailCategorization  = "email_categorization"
	OpCalendarParsing      = "calendar_parsing"
	OpBatchEmailProcessing = "batch_email_processing"
	OpCustom               = "custom"
)

// TokenRequest is the payload of POST /api/auth/token.
type TokenRequest struct {
	ClientID     string `json:"client_id"     validate:"required,max=128"`
	ClientSecret string `json:"client_secret" validate:"required,max=72"`
}

// TokenResponse is returned for valid client credentials.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`

	// ExpiresAt is an RFC 3339 timestamp
	ExpiresAt string `json:"expires_at"`
}

// SubmitOperationRequest is the payload of POST /api/operations. Which payload
// fields are required depends on Type.
type SubmitOperationRequest struct {
	Type     string `json:"type"     validate:"required,oneof=email_summarization email_reply email_categorization calendar_parsing batch_email_processing custom"`
	Priority string `json:"priority" validate:"omitempty,max=16"`

	EmailID   string `json:"email_id,omitempty"   validate:"max=256"`
	Content   string `json:"content,omitempty"    validate:"max=200000"`
	MaxLength int    `json:"max_length,omitempty" validate:"gte=0"`
	Context   string `json:"context,omitempty"    validate:"max=200000"`

	Text string `json:"text,omitempty" validate:"max=20000"`

	EmailIDs  []string `json:"email_ids,omitempty" validate:"max=1000,dive,required,max=256"`
	Operation string   `json:"operation,omitempty" validate:"max=64"`

	OperationName string `json:"operation_name,omitempty" validate:"max=128"`
	Prompt        string `json:"prompt,omitempty"         validate:"max=200000"`

	Metadata            map[string]string `json:"metadata,omitempty"              validate:"max=32"`
	EstimatedDurationMS int64             `json:"estimated_duration_ms,omitempty" validate:"gte=0"`
}

// toOperation builds the queued operation described by the request. It checks
// the fields each operation type requires.
func (req *SubmitOperationRequest) toOperation() (*task.Operation, error) {
	priority := task.PriorityNormal
	if req.Priority != "" {
		p, ok := task.ParsePriority(req.Priority)
		if !ok {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidOperationRequest, req.Priority)
		}
		priority = p
	}

	opType, err := req.operationType()
	if err != nil {
		return nil, err
	}

	op := task.NewOperation(opType, priority)
	for k, v := range req.Metadata {
		op.WithMetadata(k, v)
	}
	if req.EstimatedDurationMS > 0 {
		op.WithEstimatedDuration(time.Duration(req.EstimatedDurationMS) * time.Millisecond)
	}
	return op, nil
}

func (req *SubmitOperationRequest) operationType() (task.OperationType, error) {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s is required for %s", ErrInvalidOperationRequest, field, req.Type)
	}

	switch req.Type {
	case OpEmailSummarization:
		if strings.TrimSpace(req.Content) == "" {
			return nil, missing("content")
		}
		return task.EmailSummarization{EmailID: req.EmailID, Content: req.Content, MaxLength: req.MaxLength}, nil

	case OpEmailReply:
		if strings.TrimSpace(req.Content) == "" {
			return nil, missing("content")
		}
		return task.EmailReply{EmailID: req.EmailID, Content: req.Content, Context: req.Context}, nil

	case OpEmailCategorization:
		if strings.TrimSpace(req.Content) == "" {
			return nil, missing("content")
		}
		return task.EmailCategorization{EmailID: req.EmailID, Content: req.Content}, nil

	case OpCalendarParsing:
		if strings.TrimSpace(req.Text) == "" {
			return nil, missing("text")
		}
		return task.CalendarParsing{Text: req.Text, Context: req.Context}, nil

	case OpBatchEmailProcessing:
		if len(req.EmailIDs) == 0 {
			return nil, missing("email_ids")
		}
		if req.Operation == "" {
			return nil, missing("operation")
		}
		ids := make([]string, len(req.EmailIDs))
		copy(ids, req.EmailIDs)
		return task.BatchEmailProcessing{EmailIDs: ids, Operation: req.Operation}, nil

	case OpCustom:
		if req.OperationName == "" {
			return nil, missing("operation_name")
		}
		if strings.TrimSpace(req.Prompt) == "" {
			return nil, missing("prompt")
		}
		return task.Custom{OperationName: req.OperationName, Prompt: req.Prompt, Context: req.Context}, nil

	default:
		return nil, fmt.Errorf("%w: unknown operation type %q", ErrInvalidOperationRequest, req.Type)
	}
}

// SubmitOperationResponse is returned when an operation is accepted.
type SubmitOperationResponse struct {
	ID    uuid.UUID  `json:"id"`
	State task.State `json:"state"`
}

// CancelOperationResponse reports whether a cancel request took effect.
type CancelOperationResponse struct {
	ID        uuid.UUID `json:"id"`
	Cancelled bool      `json:"cancelled"`
}

// OperationStatusResponse is a status snapshot of one operation.
type OperationStatusResponse struct {
	ID       uuid.UUID  `json:"id"`
	State    task.State `json:"state"`
	Progress float64    `json:"progress"`
	Result   string     `json:"result,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func newOperationStatusResponse(id uuid.UUID, status task.Status) OperationStatusResponse {
	return OperationStatusResponse{
		ID:       id,
		State:    status.State,
		Progress: status.Progress,
		Result:   status.Result,
		Error:    status.Error,
	}
}

// OperationResultResponse is the recorded outcome of a finished operation.
type OperationResultResponse struct {
	OperationID      uuid.UUID `json:"operation_id"`
	OperationType    string    `json:"operation_type"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	Output           string    `json:"output,omitempty"`
	Error            string    `json:"error,omitempty"`
	QueueTimeMS      int64     `json:"queue_time_ms"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
	CompletedAt      time.Time `json:"completed_at"`
}

func newOperationResultResponse(rec *store.ResultRecord) OperationResultResponse {
	return OperationResultResponse{
		OperationID:      rec.OperationID,
		OperationType:    rec.OperationType,
		Priority:         rec.Priority,
		Status:           rec.Status,
		Output:           rec.Output,
		Error:            rec.Error,
		QueueTimeMS:      rec.QueueTime.Milliseconds(),
		ProcessingTimeMS: rec.ProcessingTime.Milliseconds(),
		CompletedAt:      rec.CompletedAt,
	}
}

// OperationResultsResponse lists recent results, newest first.
type OperationResultsResponse struct {
	Results []OperationResultResponse `json:"results"`
}

// StatsResponse is the processor statistics snapshot.
type StatsResponse struct {
	TotalOperations       int            `json:"total_operations"`
	SuccessfulOperations  int            `json:"successful_operations"`
	FailedOperations      int            `json:"failed_operations"`
	TimedOutOperations    int            `json:"timed_out_operations"`
	CancelledOperations   int            `json:"cancelled_operations"`
	AvgProcessingTimeMS   float64        `json:"avg_processing_time_ms"`
	CurrentQueueSize      int            `json:"current_queue_size"`
	ActiveOperationsCount int            `json:"active_operations_count"`
	CacheHitRate          float64        `json:"cache_hit_rate"`
	OperationsByType      map[string]int `json:"operations_by_type"`
	OperationsByPriority  map[string]int `json:"operations_by_priority"`
}

func newStatsResponse(stats task.Stats) StatsResponse {
	return StatsResponse{
		TotalOperations:       stats.TotalOperations,
		SuccessfulOperations:  stats.SuccessfulOperations,
		FailedOperations:      stats.FailedOperations,
		TimedOutOperations:    stats.TimedOutOperations,
		CancelledOperations:   stats.CancelledOperations,
		AvgProcessingTimeMS:   float64(stats.AvgProcessingTime) / float64(time.Millisecond),
		CurrentQueueSize:      stats.CurrentQueueSize,
		ActiveOperationsCount: stats.ActiveOperationsCount,
		CacheHitRate:          stats.CacheHitRate,
		OperationsByType:      nonNilCounts(stats.OperationsByType),
		OperationsByPriority:  nonNilCounts(stats.OperationsByPriority),
	}
}

func nonNilCounts(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
