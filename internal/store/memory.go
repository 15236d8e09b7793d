package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryResultStore keeps the most recent results in process memory. Once full,
// the oldest record is evicted for every new one.
type MemoryResultStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*ResultRecord
	limit   int
}

var _ ResultStore = (*MemoryResultStore)(nil)

// NewMemoryResultStore creates a store holding at most limit records.
func NewMemoryResultStore(limit int) *MemoryResultStore {
	if limit <= 0 {
		limit = 1000
	}
	return &MemoryResultStore{
		records: make(map[uuid.UUID]*ResultRecord),
		limit:   limit,
	}
}

// Save implements ResultStore.
func (s *MemoryResultStore) Save(ctx context.Context, rec *ResultRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *rec
	s.records[rec.OperationID] = &copied

	for len(s.records) > s.limit {
		var oldest *ResultRecord
		for _, r := range s.records {
			if oldest == nil || r.CompletedAt.Before(oldest.CompletedAt) {
				oldest = r
			}
		}
		delete(s.records, oldest.OperationID)
	}
	return nil
}

// Get implements ResultStore.
func (s *MemoryResultStore) Get(ctx context.Context, id uuid.UUID) (*ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrResultNotFound
	}
	copied := *rec
	return &copied, nil
}

// ListRecent implements ResultStore.
func (s *MemoryResultStore) ListRecent(ctx context.Context, limit int) ([]*ResultRecord, error) {
	s.mu.RLock()
	out := make([]*ResultRecord, 0, len(s.records))
	for _, r := range s.records {
		copied := *r
		out = append(out, &copied)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
