package task

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Execution errors carried by failed or timed out results
var (
	ErrTimedOut          = errors.New("operation timed out")
	ErrOperationPanicked = errors.New("operation panicked")
)

type outcome struct {
	output string
	err    error
}

// process runs one dequeued operation to a terminal result. It always publishes
// exactly one Result.
func (p *Processor) process(op *Operation) {
	queueTime := op.Age()

	op.Status = Status{State: StateProcessing}
	p.active.add(op)

	initial := ProgressUpdate{
		OperationID: op.ID,
		Message:     "Starting operation",
	}
	if op.EstimatedDuration > 0 {
		eta := op.EstimatedDuration
		initial.ETA = &eta
	}
	p.publishProgress(initial)

	start := time.Now()
	res := p.execute(op)
	processingTime := time.Since(start)

	p.active.remove(op.ID)

	result := Result{
		OperationID:   op.ID,
		OperationType: op.Type.TypeName(),
		Priority:      op.Priority,
		Duration:      processingTime,
		Metrics: Metrics{
			QueueTime:      queueTime,
			ProcessingTime: processingTime,
		},
	}

	switch {
	case res.err == nil:
		result.Status = Status{State: StateCompleted, Progress: 1, Result: res.output}
		result.Output = res.output
	case errors.Is(res.err, ErrTimedOut):
		result.Status = Status{State: StateTimedOut}
		result.Error = res.err.Error()
	default:
		result.Status = Status{State: StateFailed, Error: res.err.Error()}
		result.Error = res.err.Error()
	}
	op.Status = result.Status

	p.stats.recordFinished(result.Status.State, processingTime)

	log := p.logger.With(
		"operation_id", op.ID,
		"operation_type", result.OperationType,
		"priority", op.Priority.String(),
		"queue_time", queueTime,
		"processing_time", processingTime,
	)
	switch result.Status.State {
	case StateCompleted:
		log.Info("operation completed")
	case StateTimedOut:
		log.Warn("operation timed out", "timeout", p.config.OperationTimeout)
	default:
		log.Error("operation failed", "error", res.err)
	}

	p.publishResult(result)
}

// execute races the delegated call against the operation timeout. On timeout
// the delegate's context is cancelled and its goroutine is left to finish on its
// own; whatever it returns afterwards is discarded.
func (p *Processor) execute(op *Operation) outcome {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.OperationTimeout)
	defer cancel()

	report := func(progress float64, message string) {
		if ctx.Err() != nil {
			return
		}
		p.active.setProgress(op.ID, progress)
		p.publishProgress(ProgressUpdate{
			OperationID: op.ID,
			Progress:    progress,
			Message:     message,
		})
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrOperationPanicked, r)}
			}
		}()
		output, err := p.dispatch(ctx, op, report)
		done <- outcome{output: output, err: err}
	}()

	timedOut := outcome{err: fmt.Errorf("%w after %s", ErrTimedOut, p.config.OperationTimeout)}

	select {
	case res := <-done:
		if res.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return timedOut
		}
		return res
	case <-ctx.Done():
		select {
		case res := <-done:
			if res.err == nil {
				return res
			}
		default:
		}
		return timedOut
	}
}
