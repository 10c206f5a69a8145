// Package memory is an in-process KV store, used by default and in tests.
package memory

import (
	"context"
	"sync"

	"alcyxob/fitprogram/internal/repository"
)

type store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewStore() repository.KVStore {
	return &store{data: make(map[string][]byte)}
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *store) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
	return nil
}

func (s *store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
