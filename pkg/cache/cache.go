package cache

import (
	"sync"
	"time"
)

// Cache is an explicit TTL cache for infrequently changing configuration
// snapshots. Expiry and invalidation are owned by the caller that constructs
// it; nothing in this package holds hidden package-level state.
type Cache[T any] struct {
	mu       sync.Mutex
	value    T
	loadedAt time.Time
	loaded   bool
	ttl      time.Duration
	now      func() time.Time
}

// New builds a cache with the given TTL. A non-positive TTL disables caching
// entirely: every Get reports a miss.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{ttl: ttl, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (c *Cache[T]) WithClock(now func() time.Time) *Cache[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the cached value and whether it is still fresh.
func (c *Cache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded || c.ttl <= 0 || c.now().Sub(c.loadedAt) > c.ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores a value and restarts its TTL.
func (c *Cache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.loadedAt = c.now()
	c.loaded = true
}

// Invalidate drops the cached value so the next Get misses. Wired to the
// config-refresh endpoint so a backend change does not require a redeploy.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.loaded = false
}
