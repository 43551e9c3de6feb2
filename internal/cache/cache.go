// Package cache provides a small keyed TTL cache with explicit invalidation.
// It backs the read-mostly shared state (synonym snapshots, category keyword
// tables) so that staleness and invalidation are visible in the call sites
// instead of hidden in package-level globals.
package cache

import (
	"sync"
	"time"
)

// Cache is a TTL cache from string keys to values of type V.
// Safe for concurrent use. Readers may observe entries up to the TTL old;
// writers call Invalidate after mutating the underlying data.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

type entry[V any] struct {
	value   V
	expires time.Time
}

// New creates a cache whose entries expire after ttl. A non-positive ttl
// means entries never expire and are only removed by Invalidate.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, building and storing it via build
// on a miss or after expiry. A build error is returned without caching.
func (c *Cache[V]) Get(key string, build func() (V, error)) (V, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && (e.expires.IsZero() || c.now().Before(e.expires)) {
		return e.value, nil
	}

	value, err := build()
	if err != nil {
		var zero V
		return zero, err
	}

	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expires: expires}
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops the given keys, or every entry when called with no keys.
func (c *Cache[V]) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]entry[V])
		return
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Len returns the number of cached entries, including expired ones not yet
// rebuilt.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
