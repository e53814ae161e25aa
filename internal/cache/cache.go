// Package cache provides a small in-memory TTL cache for directory listings.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long an entry is served before it is treated as absent.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	data     T
	storedAt time.Time
}

// Store is a process-lifetime key/value cache with a fixed TTL.
// Entries are overwritten on refresh and never evicted otherwise.
// Thread-safe for concurrent access.
type Store[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[T]
}

// New creates a Store with the given TTL. A TTL of zero uses DefaultTTL.
func New[T any](ttl time.Duration) *Store[T] {
	return NewWithClock[T](ttl, time.Now)
}

// NewWithClock creates a Store with an injected clock, for TTL tests.
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[T]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the cached value for key if it was stored within the TTL.
// An expired entry is treated as a miss and left in place until overwritten.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || s.now().Sub(e.storedAt) >= s.ttl {
		var zero T
		return zero, false
	}
	return e.data, true
}

// Set stores data under key, overwriting any previous entry.
func (s *Store[T]) Set(key string, data T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{data: data, storedAt: s.now()}
}

// Delete removes the entry for key outright, forcing a fresh fetch on the
// next read regardless of TTL.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes all entries.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry[T])
}

// Len returns the number of stored entries, expired or not.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
