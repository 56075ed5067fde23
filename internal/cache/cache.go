// Package cache memoizes upstream responses in process memory for a fixed
// freshness window.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the freshness window for place search results.
const DefaultTTL = 24 * time.Hour

type entry[V any] struct {
	storedAt time.Time
	value    V
}

// TTL is an in-memory map whose entries are served only while younger than
// the TTL. Stale entries stay in the map until overwritten; nothing is
// evicted before process exit. It is safe for concurrent use, but concurrent
// misses for the same key are not coalesced.
type TTL[V any] struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry[V]

	nowFunc func() time.Time
}

// New creates a cache with the given freshness window. A non-positive ttl
// means DefaultTTL.
func New[V any](ttl time.Duration) *TTL[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		nowFunc: time.Now,
	}
}

// Get returns the value stored under key if it is still fresh.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.nowFunc().Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *TTL[V]) Set(key string, value V) {
	now := c.nowFunc()
	c.mu.Lock()
	c.entries[key] = entry[V]{storedAt: now, value: value}
	c.mu.Unlock()
}

// Len returns the number of entries held, fresh or stale.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the freshness window.
func (c *TTL[V]) TTL() time.Duration { return c.ttl }

// ZipKey is the cache key for a place search by ZIP code.
func ZipKey(zip string) string { return "zip:" + zip }
