package ledger

import (
	"context"
	"sync"
)

// Memory is an in-process ledger used by tests and the local development mode
// of the gateway. It mirrors the contract semantics: string keys, opaque byte
// payloads, absent keys read as empty bytes, writes overwrite atomically.
type Memory struct {
	mu        sync.RWMutex
	data      map[string][]byte
	available bool
}

// NewMemory constructs an empty, available in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		data:      make(map[string][]byte),
		available: true,
	}
}

// SetAvailable toggles the availability probe result.
func (m *Memory) SetAvailable(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = ok
}

// IsAvailable reports the configured availability.
func (m *Memory) IsAvailable(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available, nil
}

// GetData returns a copy of the payload under key, or empty bytes if absent.
func (m *Memory) GetData(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// SetData overwrites the payload under key.
func (m *Memory) SetData(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}
