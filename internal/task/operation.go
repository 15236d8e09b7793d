package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority orders operations in the queue. Higher values are dispatched first.
type Priority int

// Priority levels, lowest to highest.
const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String returns the priority name used in statistics and logs.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// ParsePriority converts a priority name (case-insensitive) into a Priority.
func ParsePriority(name string) (Priority, bool) {
	for _, p := range []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical} {
		if strings.EqualFold(p.String(), name) {
			return p, true
		}
	}
	return PriorityNormal, false
}

// OperationType is the payload of an operation. The set of implementations is
// closed: EmailSummarization, EmailReply, EmailCategorization, CalendarParsing,
// BatchEmailProcessing and Custom.
type OperationType interface {
	// TypeName is the key the operation is counted under in Stats.
	TypeName() string

	isOperationType()
}

// EmailSummarization asks for a summary of an email body.
type EmailSummarization struct {
	EmailID string `json:"email_id"`
	Content string `json:"content"`
	// MaxLength limits the summary length; zero means no limit.
	MaxLength int `json:"max_length,omitempty"`
}

// EmailReply asks for reply suggestions for an email.
type EmailReply struct {
	EmailID string `json:"email_id"`
	Content string `json:"content"`
	Context string `json:"context"`
}

// EmailCategorization asks for the category of an email.
type EmailCategorization struct {
	EmailID string `json:"email_id"`
	Content string `json:"content"`
}

// CalendarParsing extracts a scheduling intent from free text.
type CalendarParsing struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
}

// BatchEmailProcessing applies one operation to several emails in sequence.
type BatchEmailProcessing struct {
	EmailIDs  []string `json:"email_ids"`
	Operation string   `json:"operation"`
}

// Custom is a free-form prompt completion.
type Custom struct {
	OperationName string `json:"operation_name"`
	Prompt        string `json:"prompt"`
	Context       string `json:"context,omitempty"`
}

func (EmailSummarization) TypeName() string   { return "EmailSummarization" }
func (EmailReply) TypeName() string           { return "EmailReply" }
func (EmailCategorization) TypeName() string  { return "EmailCategorization" }
func (CalendarParsing) TypeName() string      { return "CalendarParsing" }
func (BatchEmailProcessing) TypeName() string { return "BatchEmailProcessing" }

// TypeName returns the custom operation's own name, so custom work is broken
// down by name in the statistics.
func (c Custom) TypeName() string { return c.OperationName }

func (EmailSummarization) isOperationType()   {}
func (EmailReply) isOperationType()           {}
func (EmailCategorization) isOperationType()  {}
func (CalendarParsing) isOperationType()      {}
func (BatchEmailProcessing) isOperationType() {}
func (Custom) isOperationType()               {}

// Operation is a unit of AI work submitted to the Processor.
//
// While queued the operation is owned by the queue; once dequeued it is owned by
// the execution unit running it. Callers must not mutate an operation after
// submitting it.
type Operation struct {
	ID       uuid.UUID
	Type     OperationType
	Priority Priority

	// CreatedAt carries a monotonic reading, so Age is immune to wall clock changes.
	CreatedAt time.Time
	Status    Status

	// EstimatedDuration is zero when unknown.
	EstimatedDuration time.Duration
	Metadata          map[string]string
}

// NewOperation creates a queued operation with a fresh id.
func NewOperation(opType OperationType, priority Priority) *Operation {
	return &Operation{
		ID:        uuid.New(),
		Type:      opType,
		Priority:  priority,
		CreatedAt: time.Now(),
		Status:    Status{State: StateQueued},
		Metadata:  make(map[string]string),
	}
}

// NewHighPriorityOperation creates a queued operation at PriorityHigh.
func NewHighPriorityOperation(opType OperationType) *Operation {
	return NewOperation(opType, PriorityHigh)
}

// NewCriticalOperation creates a queued operation at PriorityCritical.
func NewCriticalOperation(opType OperationType) *Operation {
	return NewOperation(opType, PriorityCritical)
}

// WithMetadata sets a metadata entry and returns the operation for chaining.
func (o *Operation) WithMetadata(key, value string) *Operation {
	if o.Metadata == nil {
		o.Metadata = make(map[string]string)
	}
	o.Metadata[key] = value
	return o
}

// WithEstimatedDuration sets the duration estimate and returns the operation.
func (o *Operation) WithEstimatedDuration(d time.Duration) *Operation {
	o.EstimatedDuration = d
	return o
}

// Age is the time elapsed since the operation was created.
func (o *Operation) Age() time.Duration {
	return time.Since(o.CreatedAt)
}

// IsTimeSensitive reports whether the operation is High or Critical priority.
func (o *Operation) IsTimeSensitive() bool {
	return o.Priority == PriorityHigh || o.Priority == PriorityCritical
}
