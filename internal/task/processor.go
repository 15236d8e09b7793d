package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/phrazzld/inbox-ai/internal/ai"
)

// ErrInvalidOperation is returned by Submit for an operation without a type.
var ErrInvalidOperation = errors.New("invalid operation")

// Processor runs AI operations in the background, highest priority first, with
// at most Config.MaxConcurrentOperations executing at once.
//
// A single dispatch loop drains the queue. For every dequeued operation it
// acquires one permit and spawns an execution unit without waiting for it, so a
// freed permit is refilled immediately.
//
// The permit bounds execution units, not delegate calls. When an operation
// times out its unit publishes the TimedOut result and releases the permit,
// but a delegate that ignores its context keeps running in the background.
// Such abandoned calls are not counted, so the number of in-flight delegate
// calls can exceed MaxConcurrentOperations until they return.
type Processor struct {
	config  Config
	service ai.Service
	logger  *slog.Logger

	queue   *OperationQueue
	active  *activeSet
	stats   *statsAggregator
	permits *semaphore.Weighted

	// mu guards the fields below
	mu       sync.Mutex
	progress *stream[ProgressUpdate]
	results  *stream[Result]
	stop     chan struct{}
	running  bool

	loops    sync.WaitGroup
	inflight sync.WaitGroup
}

// NewProcessor creates a Processor that delegates execution to service.
// Invalid configuration values are replaced by their defaults.
func NewProcessor(config Config, service ai.Service, logger *slog.Logger) *Processor {
	logger = logger.With("component", "operation_processor")

	config, fixed := config.withDefaults()
	if len(fixed) > 0 {
		logger.Warn("invalid processor configuration replaced by defaults", "fields", fixed)
	}

	return &Processor{
		config:  config,
		service: service,
		logger:  logger,
		queue:   NewOperationQueue(config.MaxQueueSize),
		active:  newActiveSet(),
		stats:   newStatsAggregator(),
		permits: semaphore.NewWeighted(int64(config.MaxConcurrentOperations)),
	}
}

// Config returns the effective configuration.
func (p *Processor) Config() Config {
	return p.config
}

// Start begins dispatching and returns the progress and result streams.
//
// The streams are meant for one long-lived subscriber. Calling Start again
// replaces both streams: the previous channels are closed and anything they had
// not yet delivered is dropped. The dispatch loop is not duplicated.
func (p *Processor) Start() (<-chan ProgressUpdate, <-chan Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progress != nil {
		p.logger.Warn("processor restarted, previous subscribers are orphaned")
		p.progress.abandon()
		p.results.abandon()
	}
	p.progress = newStream[ProgressUpdate]()
	p.results = newStream[Result]()

	if !p.running {
		p.stop = make(chan struct{})
		p.running = true
		p.loops.Add(2)
		go p.dispatchLoop(p.stop)
		go p.refreshStats(p.stop)

		p.logger.Info("operation processor started",
			"max_concurrent_operations", p.config.MaxConcurrentOperations,
			"max_queue_size", p.config.MaxQueueSize,
			"operation_timeout", p.config.OperationTimeout)
	}

	return p.progress.channel(), p.results.channel()
}

// Stop asks the background loops to exit. They notice on their next iteration;
// operations already running are not interrupted and still publish results.
func (p *Processor) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stop)
	p.running = false
	p.logger.Info("operation processor stopping")
}

// Shutdown stops the processor, waits for running operations to publish their
// results and then closes both streams. Queued operations stay queued.
func (p *Processor) Shutdown(ctx context.Context) error {
	p.Stop()

	done := make(chan struct{})
	go func() {
		// loops first: the dispatch loop is the only caller of inflight.Add
		p.loops.Wait()
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for running operations: %w", ctx.Err())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.progress != nil {
		p.progress.close()
		p.results.close()
	}

	p.logger.Info("operation processor shut down", "queued_operations", p.queue.Len())
	return nil
}

// Submit queues op and returns its id. It fails immediately with ErrQueueFull
// when the queue is at capacity; there is no waiting for room.
func (p *Processor) Submit(op *Operation) (uuid.UUID, error) {
	if op == nil || op.Type == nil {
		return uuid.Nil, fmt.Errorf("%w: operation type is required", ErrInvalidOperation)
	}

	queueLen, err := p.queue.Enqueue(op)
	if err != nil {
		p.logger.Warn("operation rejected",
			"operation_id", op.ID,
			"operation_type", op.Type.TypeName(),
			"queue_len", queueLen,
			"error", err)
		return uuid.Nil, err
	}

	p.stats.recordSubmitted(op, queueLen)

	p.logger.Debug("operation queued",
		"operation_id", op.ID,
		"operation_type", op.Type.TypeName(),
		"priority", op.Priority.String(),
		"queue_len", queueLen)

	return op.ID, nil
}

// Cancel cancels the operation with the given id.
//
// A queued operation is removed and will never run. A running operation is only
// marked cancelled: it keeps running and still publishes its result. Cancel
// returns false for unknown or finished operations.
func (p *Processor) Cancel(id uuid.UUID) bool {
	if remaining, removed := p.queue.Remove(id); removed {
		p.stats.recordCancelled(remaining)
		p.logger.Info("queued operation cancelled", "operation_id", id, "queue_len", remaining)
		return true
	}

	if p.active.markCancelled(id) {
		p.logger.Info("running operation marked cancelled", "operation_id", id)
		return true
	}

	return false
}

// Status returns the current status of a running or queued operation.
func (p *Processor) Status(id uuid.UUID) (Status, bool) {
	if status, ok := p.active.status(id); ok {
		return status, true
	}
	return p.queue.Status(id)
}

// Stats returns a snapshot of the aggregate statistics.
func (p *Processor) Stats() Stats {
	return p.stats.snapshot()
}

func (p *Processor) dispatchLoop(stop <-chan struct{}) {
	defer p.loops.Done()

	for {
		select {
		case <-stop:
			p.logger.Debug("dispatch loop exited")
			return
		default:
		}

		op, remaining, ok := p.queue.Dequeue()
		if !ok {
			select {
			case <-stop:
			case <-time.After(p.config.IdlePollInterval):
			}
			continue
		}
		p.stats.setQueueSize(remaining)

		// Background never expires, so Acquire only returns once a permit is free.
		_ = p.permits.Acquire(context.Background(), 1)

		p.inflight.Add(1)
		go func() {
			defer p.inflight.Done()
			defer p.permits.Release(1)
			p.process(op)
		}()
	}
}

func (p *Processor) refreshStats(stop <-chan struct{}) {
	defer p.loops.Done()

	ticker := time.NewTicker(p.config.StatsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.stats.setActiveCount(p.active.len())
		}
	}
}

func (p *Processor) publishProgress(update ProgressUpdate) {
	p.mu.Lock()
	s := p.progress
	p.mu.Unlock()

	if s == nil || !s.publish(update) {
		p.logger.Debug("progress update dropped, no subscriber", "operation_id", update.OperationID)
	}
}

func (p *Processor) publishResult(result Result) {
	p.mu.Lock()
	s := p.results
	p.mu.Unlock()

	if s == nil || !s.publish(result) {
		p.logger.Warn("operation result dropped, no subscriber", "operation_id", result.OperationID)
	}
}
