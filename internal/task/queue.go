package task

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Common errors returned by the OperationQueue
var (
	ErrQueueFull = errors.New("operation queue is full")
)

// OperationQueue is a bounded queue kept sorted by descending priority.
//
// A new operation is inserted before the first entry whose priority is less than
// or equal to its own. Within one priority band the most recently submitted
// operation is therefore dequeued first.
//
// TODO: confirm with the UI owners whether first-submitted-first is wanted
// within a band before changing the insertion rule.
type OperationQueue struct {
	mu       sync.Mutex
	items    []*Operation
	capacity int
}

// NewOperationQueue creates an empty queue holding at most capacity operations.
func NewOperationQueue(capacity int) *OperationQueue {
	return &OperationQueue{
		items:    make([]*Operation, 0, capacity),
		capacity: capacity,
	}
}

// Enqueue inserts op at its priority position and returns the new length.
// It fails with ErrQueueFull, leaving the queue untouched, when at capacity.
func (q *OperationQueue) Enqueue(op *Operation) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		return len(q.items), fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, q.capacity)
	}

	pos := len(q.items)
	for i, queued := range q.items {
		if queued.Priority <= op.Priority {
			pos = i
			break
		}
	}

	q.items = append(q.items, nil)
	copy(q.items[pos+1:], q.items[pos:])
	q.items[pos] = op

	return len(q.items), nil
}

// Dequeue removes the front operation. ok is false when the queue is empty.
func (q *OperationQueue) Dequeue() (op *Operation, remaining int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, 0, false
	}

	op = q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return op, len(q.items), true
}

// Remove deletes the operation with the given id, if queued.
func (q *OperationQueue) Remove(id uuid.UUID) (remaining int, removed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, op := range q.items {
		if op.ID == id {
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = nil
			q.items = q.items[:len(q.items)-1]
			return len(q.items), true
		}
	}
	return len(q.items), false
}

// Status returns the status of a queued operation.
func (q *OperationQueue) Status(id uuid.UUID) (Status, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, op := range q.items {
		if op.ID == id {
			return op.Status, true
		}
	}
	return Status{}, false
}

// Len returns the number of queued operations.
func (q *OperationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns the queued operation ids in dispatch order.
func (q *OperationQueue) Snapshot() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()

	ids := make([]uuid.UUID, len(q.items))
	for i, op := range q.items {
		ids[i] = op.ID
	}
	return ids
}
