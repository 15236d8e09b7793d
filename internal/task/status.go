package task

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of an operation.
type State string

// Possible operation states.
//
// Queued → Processing → Completed | Failed | TimedOut, or Queued → Cancelled.
// Cancelled may also be set on a Processing operation, but only as an advisory
// marker: the execution unit still finishes and publishes its own result.
const (
	StateQueued     State = "queued"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
	StateTimedOut   State = "timed_out"
)

// IsTerminal reports whether no further transition can follow s.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled, StateTimedOut:
		return true
	default:
		return false
	}
}

// Status is a snapshot of an operation's state and the data attached to it.
type Status struct {
	State State `json:"state"`

	// Progress is in [0, 1] and only meaningful while processing.
	Progress float64 `json:"progress,omitempty"`

	// Result is set when State is StateCompleted.
	Result string `json:"result,omitempty"`

	// Error is set when State is StateFailed.
	Error string `json:"error,omitempty"`
}

// ProgressUpdate is published on the progress stream while an operation runs.
type ProgressUpdate struct {
	OperationID   uuid.UUID      `json:"operation_id"`
	Progress      float64        `json:"progress"`
	Message       string         `json:"message"`
	PartialResult string         `json:"partial_result,omitempty"`
	ETA           *time.Duration `json:"eta,omitempty"`
}

// Metrics describes how an operation spent its time.
type Metrics struct {
	// QueueTime runs from creation to dequeue.
	QueueTime time.Duration `json:"queue_time"`

	// ProcessingTime is the wall time of the delegated call.
	ProcessingTime time.Duration `json:"processing_time"`

	// RetryAttempts is always zero here; retries happen inside the AI service.
	RetryAttempts int  `json:"retry_attempts"`
	CacheHit      bool `json:"cache_hit"`

	TokensProcessed *int `json:"tokens_processed,omitempty"`
}

// Result is published exactly once for every operation that leaves the queue.
type Result struct {
	OperationID   uuid.UUID     `json:"operation_id"`
	OperationType string        `json:"operation_type"`
	Priority      Priority      `json:"priority"`
	Status        Status        `json:"status"`
	Duration      time.Duration `json:"duration"`
	Output        string        `json:"output,omitempty"`
	Error         string        `json:"error,omitempty"`
	Metrics       Metrics       `json:"metrics"`
}
