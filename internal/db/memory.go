package db

import (
	"context"
	"sync"
)

// MemoryStore loses everything on restart, it backs the memory driver and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key, def string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if val, ok := s.data[namespace][key]; ok {
		return val, nil
	}
	return def, nil
}

func (s *MemoryStore) Put(_ context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]string)
		s.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
