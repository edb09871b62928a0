// Package memstore provides an in-process ports.Storage backend. It is
// the default when no external store is configured.
package memstore

import (
	"sync"

	"github.com/stardyn/authkit/internal/ports"
)

// Store is a concurrency-safe in-memory key-value store.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ ports.Storage = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{values: map[string]string{}}
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	s.values = map[string]string{}
	s.mu.Unlock()
	return nil
}
