package stats

import (
	"context"
	"sync"
)

// MemoryStore keeps aggregates in process memory. Used in tests and when no
// database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]PlayerStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]PlayerStats)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*PlayerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}

	return &record, nil
}

func (s *MemoryStore) Transact(_ context.Context, key string, fn func(PlayerStats) PlayerStats) (*PlayerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := fn(s.records[key])
	s.records[key] = updated

	return &updated, nil
}
