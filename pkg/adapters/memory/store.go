// Package memory implements ports.Store in process memory.
//
// It is the fake backend for tests and the default for throwaway runs; it
// shares the exact observable semantics of the durable backends, minus
// persistence.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/satchel-dev/satchel/pkg/domain"
)

// Store implements ports.Store in memory. Safe for concurrent use.
type Store struct {
	// A plain Mutex rather than RWMutex: Get reaps expired entries, so even
	// reads may mutate the map.
	mu   sync.Mutex
	data map[string]*domain.Record
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{data: make(map[string]*domain.Record)}
}

// Get retrieves the record, reaping it if expired.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if rec.Expired(time.Now()) {
		delete(s.data, sessionID)
		return nil, domain.ErrSessionNotFound
	}

	// Clone on read so the caller can't mutate stored state by pointer.
	return rec.Clone(), nil
}

// Set stores a copy of the record.
func (s *Store) Set(ctx context.Context, sessionID string, record *domain.Record) error {
	clone := record.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = clone
	return nil
}

// Delete removes the record. Absence is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// Exists reports whether a live record is present.
func (s *Store) Exists(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.Get(ctx, sessionID)
	if err == domain.ErrSessionNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Keys returns the stored session IDs, possibly including expired entries
// that have not been reaped yet.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.data))
	for id := range s.data {
		keys = append(keys, id)
	}
	return keys, nil
}
