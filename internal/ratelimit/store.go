package ratelimit

import (
	"sync"
	"time"
)

// Counter is the fixed-window state tracked per key. A zero Counter means the key
// has not been seen yet.
type Counter struct {
	Count       int
	WindowStart time.Time
}

// Store holds per-key counters. Update must run fn atomically with respect to any
// other Update for the same key; fn may mutate the counter in place.
type Store interface {
	Update(key string, fn func(counter *Counter))
}

// MemoryStore is a process-local Store guarded by a single mutex. Keys are never
// evicted; growth is bounded by the number of distinct clients seen.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*Counter
}

// NewMemoryStore creates an empty counter table.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*Counter)}
}

// Update applies fn to the counter for key under the table lock.
func (s *MemoryStore) Update(key string, fn func(counter *Counter)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter, ok := s.counters[key]
	if !ok {
		counter = &Counter{}
		s.counters[key] = counter
	}
	fn(counter)
}

// Len reports how many keys are tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}

var _ Store = (*MemoryStore)(nil)
