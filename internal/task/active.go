package task

import (
	"sync"

	"github.com/google/uuid"
)

// activeSet tracks operations currently owned by an execution unit.
type activeSet struct {
	mu  sync.RWMutex
	ops map[uuid.UUID]*Operation
}

func newActiveSet() *activeSet {
	return &activeSet{ops: make(map[uuid.UUID]*Operation)}
}

func (a *activeSet) add(op *Operation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ops[op.ID] = op
}

func (a *activeSet) remove(id uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.ops, id)
}

func (a *activeSet) status(id uuid.UUID) (Status, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	op, ok := a.ops[id]
	if !ok {
		return Status{}, false
	}
	return op.Status, true
}

// markCancelled flags an active operation as cancelled. The flag is advisory;
// the execution unit is not interrupted.
func (a *activeSet) markCancelled(id uuid.UUID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	op, ok := a.ops[id]
	if !ok {
		return false
	}
	op.Status = Status{State: StateCancelled}
	return true
}

// setProgress records progress unless the operation was marked cancelled.
func (a *activeSet) setProgress(id uuid.UUID, progress float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	op, ok := a.ops[id]
	if !ok || op.Status.State != StateProcessing {
		return
	}
	op.Status.Progress = progress
}

func (a *activeSet) len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.ops)
}
