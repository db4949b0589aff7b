// Package memory provides a process-local session storage.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iudanet/fishlog/internal/client/storage"
)

// Storage keeps session entries in a map
type Storage struct {
	values map[string]string
	mu     sync.RWMutex
	closed bool
}

// Compile-time check that Storage implements storage.SessionStorage
var _ storage.SessionStorage = (*Storage)(nil)

// New creates an empty in-memory storage
func New() *Storage {
	return &Storage{values: make(map[string]string)}
}

// Seed writes raw values bypassing any checks, e.g. to simulate corrupt state
func (s *Storage) Seed(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.values[k] = v
	}
}

// Has reports whether the key is present
func (s *Storage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.values[key]
	return ok
}

func (s *Storage) SaveEntries(ctx context.Context, entries *storage.Entries) error {
	if entries == nil {
		return fmt.Errorf("session entries are nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	for _, key := range storage.Keys() {
		if value := entries.Value(key); value != "" {
			s.values[key] = value
		} else {
			delete(s.values, key)
		}
	}
	return nil
}

func (s *Storage) GetEntries(ctx context.Context) (*storage.Entries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	entries := &storage.Entries{}
	for _, key := range storage.Keys() {
		entries.Set(key, s.values[key])
	}
	return entries, nil
}

func (s *Storage) GetToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", storage.ErrStorageClosed
	}
	return s.values[storage.KeyToken], nil
}

func (s *Storage) DeleteEntries(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	for _, key := range storage.Keys() {
		delete(s.values, key)
	}
	return nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
