// Package storage provides the durable key/value medium used for the
// favorites list and the theme preference. Values are whole strings;
// every write overwrites the previous value.
package storage

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("storage: key not found")
	// ErrPersistence wraps any failure of the underlying medium.
	ErrPersistence = errors.New("storage: persistence failure")
)

// Store is a string key/value medium.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore keeps values in memory only. Used when no durable medium
// is available.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
