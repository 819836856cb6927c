// Package kv provides the key-value tiers the board persists to.
package kv

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned when a write would exceed a store's capacity.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is a string key-value store. Get reports whether the key exists.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Memory is an in-process Store. A positive Limit caps the total number of
// bytes held across all values.
type Memory struct {
	Limit int

	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty, unlimited in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key, failing with ErrQuotaExceeded past Limit.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if m.Limit > 0 {
		size := len(value)
		for k, v := range m.values {
			if k != key {
				size += len(v)
			}
		}
		if size > m.Limit {
			return ErrQuotaExceeded
		}
	}
	m.values[key] = value
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
