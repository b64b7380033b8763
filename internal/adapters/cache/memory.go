package cache

import (
	"context"
	"sync"

	"github.com/preset-app/matchmaking/internal/domain/compat"
	"github.com/preset-app/matchmaking/pkg/metrics"
)

// MemoryStore is the default Store: a mutex-guarded map with no
// eviction. The working set is bounded by the catalog of profile/gig
// pairs, which is small enough to hold in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]compat.Data
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]compat.Data),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (compat.Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.entries[key]
	if !ok {
		return compat.Data{}, ErrNotFound
	}
	return data, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, data compat.Data) error {
	s.mu.Lock()
	s.entries[key] = data
	size := len(s.entries)
	s.mu.Unlock()

	metrics.UpdateCacheSize(size)
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	size := len(s.entries)
	s.mu.Unlock()

	metrics.UpdateCacheSize(size)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]compat.Data)
	s.mu.Unlock()

	metrics.UpdateCacheSize(0)
	return nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
