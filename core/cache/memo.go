package cache

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Key identifies a resolved route.
type Key struct {
	Method string
	Path   string
}

func (k Key) String() string {
	return k.Method + " " + k.Path
}

// ComputeFunc produces the value for a missing key. Returning store == false
// hands the value to the caller without retaining it (e.g. not-found results).
type ComputeFunc[V any] func() (value V, store bool, err error)

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Memo is a grow-only memo table. Entries are never evicted or invalidated.
// Safe for concurrent use; the lock is never held while computing a value.
type Memo[V any] struct {
	mu      sync.RWMutex
	entries map[Key]V
	group   singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty memo table.
func New[V any]() *Memo[V] {
	return &Memo[V]{entries: make(map[Key]V)}
}

// Get returns the cached value for key.
func (m *Memo[V]) Get(key Key) (V, bool) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	return v, ok
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Concurrent misses for the same key share a single computation.
func (m *Memo[V]) GetOrCompute(key Key, compute ComputeFunc[V]) (V, error) {
	if v, ok := m.Get(key); ok {
		m.hits.Add(1)
		return v, nil
	}
	m.misses.Add(1)

	res, err, _ := m.group.Do(key.String(), func() (any, error) {
		// Another flight may have stored the value between Get and Do.
		if v, ok := m.Get(key); ok {
			return v, nil
		}

		v, store, err := compute()
		if err != nil {
			return v, err
		}
		if store {
			m.mu.Lock()
			m.entries[key] = v
			m.mu.Unlock()
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len returns the number of stored entries.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns hit/miss counters and the entry count.
func (m *Memo[V]) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Entries: m.Len(),
	}
}
