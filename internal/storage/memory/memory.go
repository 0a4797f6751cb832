// Package memory provides an in-process storage.KV backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/neonsurge/internal/storage"
)

// Store is a map-backed storage.KV.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

// Get implements storage.KV.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, storage.ErrNotFound)
	}
	return v, nil
}

// Set implements storage.KV.
func (s *Store) Set(_ context.Context, key, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = payload
	return nil
}

// Delete implements storage.KV.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
