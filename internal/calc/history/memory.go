package history

import (
	"context"
	"sync"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
)

var errStoreClosed = mdwerror.New("history store is closed").WithCode(mdwerror.CodeServiceUnavailable)

// MemoryStore is an in-memory Store for tests and for running without a
// database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry // oldest first
	closed  bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores one entry.
func (s *MemoryStore) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}
	s.entries = append(s.entries, e)
	return nil
}

// List returns up to limit entries, newest first. A limit below one
// returns everything.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errStoreClosed
	}

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Trim keeps the newest keep entries.
func (s *MemoryStore) Trim(ctx context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep >= 0 && len(s.entries) > keep {
		s.entries = append([]Entry(nil), s.entries[len(s.entries)-keep:]...)
	}
	return nil
}

// Clear removes every entry.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// Close marks the store closed; later writes fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
