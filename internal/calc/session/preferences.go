package session

import (
	"context"
	"sync"
)

// MemoryPreferences is a PreferenceStore kept in memory.
type MemoryPreferences struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryPreferences creates an empty store.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{values: make(map[string]string)}
}

// GetPreference implements PreferenceStore.
func (m *MemoryPreferences) GetPreference(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// SetPreference implements PreferenceStore.
func (m *MemoryPreferences) SetPreference(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
