package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store.
// It is safe for concurrent use.
type MemoryStore struct {
	values map[string]map[string][]byte
	mu     sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]map[string][]byte),
	}
}

func (s *MemoryStore) Get(_ context.Context, owner, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[owner][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, owner, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, ok := s.values[owner]
	if !ok {
		keys = make(map[string][]byte)
		s.values[owner] = keys
	}
	keys[key] = append([]byte(nil), value...)
	return nil
}

var _ Store = (*MemoryStore)(nil)
