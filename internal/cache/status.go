package cache

import (
	"sync"
	"time"
)

// StatusCache is a small read-through TTL cache for poll responses. Keys
// are scoped "{user_id}/{job_id}" so one user can never be served another
// user's entry. Entries are tiny JSON-ready structs; with a short TTL the
// cache stays bounded by the active job count, so there is no eviction
// beyond lazy expiry.
type StatusCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

func NewStatusCache(ttl time.Duration) *StatusCache {
	return &StatusCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or calls load and caches its result.
// A load error is returned as-is and nothing is cached.
func (c *StatusCache) Get(key string, load func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	value, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops the entry for key, forcing the next Get to reload. Used
// when a terminal status lands so polls converge immediately.
func (c *StatusCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
