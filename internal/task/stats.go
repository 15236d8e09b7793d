package task

import (
	"sync"
	"time"
)

// Stats is a point-in-time copy of the processor's aggregate counters.
type Stats struct {
	TotalOperations      int `json:"total_operations"`
	SuccessfulOperations int `json:"successful_operations"`

	// FailedOperations includes timed out operations.
	FailedOperations    int `json:"failed_operations"`
	TimedOutOperations  int `json:"timed_out_operations"`
	CancelledOperations int `json:"cancelled_operations"`

	// AvgProcessingTime is the mean processing time over finished operations.
	AvgProcessingTime time.Duration `json:"avg_processing_time"`

	CurrentQueueSize int `json:"current_queue_size"`

	// ActiveOperationsCount is refreshed periodically, so it may lag slightly.
	ActiveOperationsCount int `json:"active_operations_count"`

	// CacheHitRate is reported by the AI layer; the processor leaves it at zero.
	CacheHitRate float64 `json:"cache_hit_rate"`

	OperationsByType     map[string]int `json:"operations_by_type"`
	OperationsByPriority map[string]int `json:"operations_by_priority"`
}

// statsAggregator guards Stats behind a single writer section per update.
type statsAggregator struct {
	mu    sync.RWMutex
	stats Stats
}

func newStatsAggregator() *statsAggregator {
	return &statsAggregator{
		stats: Stats{
			OperationsByType:     make(map[string]int),
			OperationsByPriority: make(map[string]int),
		},
	}
}

func (s *statsAggregator) recordSubmitted(op *Operation, queueLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalOperations++
	s.stats.CurrentQueueSize = queueLen
	s.stats.OperationsByType[op.Type.TypeName()]++
	s.stats.OperationsByPriority[op.Priority.String()]++
}

func (s *statsAggregator) recordCancelled(queueLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.CancelledOperations++
	s.stats.CurrentQueueSize = queueLen
}

func (s *statsAggregator) setQueueSize(queueLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.CurrentQueueSize = queueLen
}

func (s *statsAggregator) setActiveCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.ActiveOperationsCount = n
}

// recordFinished counts a terminal outcome and folds processingTime into the
// running average: avg' = (avg*(n-1) + sample) / n.
func (s *statsAggregator) recordFinished(state State, processingTime time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch state {
	case StateCompleted:
		s.stats.SuccessfulOperations++
	case StateTimedOut:
		s.stats.TimedOutOperations++
		s.stats.FailedOperations++
	default:
		s.stats.FailedOperations++
	}

	finished := s.stats.SuccessfulOperations + s.stats.FailedOperations
	if finished <= 1 {
		s.stats.AvgProcessingTime = processingTime
		return
	}

	prior := float64(s.stats.AvgProcessingTime) * float64(finished-1)
	s.stats.AvgProcessingTime = time.Duration((prior + float64(processingTime)) / float64(finished))
}

func (s *statsAggregator) snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.stats
	out.OperationsByType = make(map[string]int, len(s.stats.OperationsByType))
	for k, v := range s.stats.OperationsByType {
		out.OperationsByType[k] = v
	}
	out.OperationsByPriority = make(map[string]int, len(s.stats.OperationsByPriority))
	for k, v := range s.stats.OperationsByPriority {
		out.OperationsByPriority[k] = v
	}
	return out
}
