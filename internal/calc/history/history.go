// Package history keeps the bounded list of completed calculations.
//
// The Log holds the newest entries in memory, newest first, and forwards
// every change to an optional Store so that history survives restarts. It
// implements accumulator.Recorder and can be handed to the engine directly.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

// DefaultCapacity is the number of entries kept when no capacity is given.
const DefaultCapacity = 30

// recordTimeout bounds store writes triggered through Record.
const recordTimeout = 2 * time.Second

// Entry is one completed calculation.
type Entry struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store persists history entries.
type Store interface {
	// Append stores one entry.
	Append(ctx context.Context, e Entry) error
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)
	// Trim removes all but the newest keep entries.
	Trim(ctx context.Context, keep int) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
	Close() error
}

// Option configures a Log.
type Option func(*Log)

// WithStore persists the log through s.
func WithStore(s Store) Option {
	return func(l *Log) { l.store = s }
}

// WithLogger sets the logger used for store failures during Record.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// Log is a bounded newest-first list of entries. It is safe for concurrent
// use.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int

	store  Store
	logger *logging.Logger
	now    func() time.Time
}

// New creates a log that keeps at most capacity entries. A capacity below
// one selects DefaultCapacity.
func New(capacity int, opts ...Option) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	l := &Log{
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.New("history")
	}
	return l
}

// Capacity returns the maximum number of entries.
func (l *Log) Capacity() int {
	return l.capacity
}

// Load replaces the in-memory entries with the newest entries of the store.
func (l *Log) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	entries, err := l.store.List(ctx, l.capacity)
	if err != nil {
		return errors.StoreFailure("history.load", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	l.entries = entries
	return nil
}

// Record implements accumulator.Recorder. Store failures are logged; the
// entry is kept in memory regardless.
func (l *Log) Record(expression, result string) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if _, err := l.Add(ctx, expression, result); err != nil {
		l.logger.With("expression", expression).LogError(err)
	}
}

// Add prepends a new entry, evicting the oldest one when the log is full.
// The entry is returned even when persisting it fails.
func (l *Log) Add(ctx context.Context, expression, result string) (Entry, error) {
	e := Entry{
		ID:         uuid.NewString(),
		Expression: expression,
		Result:     result,
		Timestamp:  l.now(),
	}

	l.mu.Lock()
	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	l.mu.Unlock()

	if l.store == nil {
		return e, nil
	}
	if err := l.store.Append(ctx, e); err != nil {
		return e, errors.StoreFailure("history.append", err)
	}
	if err := l.store.Trim(ctx, l.capacity); err != nil {
		return e, errors.StoreFailure("history.trim", err)
	}
	return e, nil
}

// Entries returns a copy of the entries, newest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// At returns the i-th newest entry.
func (l *Log) At(i int) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Find returns the entry with the given id.
func (l *Log) Find(id string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, errors.NotFound(errors.ModuleHistory, "find", id)
}

// Clear removes every entry from memory and from the store.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	if l.store == nil {
		return nil
	}
	if err := l.store.Clear(ctx); err != nil {
		return errors.StoreFailure("history.clear", err)
	}
	return nil
}
