// Package cache provides a TTL-bounded result cache for external-API
// calls (embedding and chat-completion responses), keyed by the full
// request tuple. No suitable third-party cache library appears among
// the retrieved examples' dependencies (no ristretto/bigcache/groupcache
// import anywhere in the pack), so this is a small stdlib
// sync.Mutex-guarded map — see DESIGN.md for the justification.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is a time-to-live-bounded string cache safe for concurrent
// use. A read of a stale entry never extends its expiry, matching the
// explicit Design Note in spec.md §9 against "ad-hoc eviction".
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New constructs a Cache with the given time-to-live. A zero or
// negative ttl disables caching: Get always misses and Set is a
// no-op.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key and true if present and not
// expired. A stale or missing entry returns ("", false); a stale entry
// is also removed from the cache.
func (c *Cache) Get(key string) (string, bool) {
	if c.ttl <= 0 {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

// Set stores value under key with a fresh expiry ttl from now.
func (c *Cache) Set(key, value string) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Len reports the number of entries currently stored, including any
// not yet lazily evicted by a Get. Intended for tests and metrics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
