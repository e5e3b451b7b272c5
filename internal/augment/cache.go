package augment

import (
	"sync"
	"time"
)

// cacheEntry represents a cached augmentation context.
type cacheEntry struct {
	expiry time.Time
	text   string
}

// contextCache provides thread-safe TTL caching for augmented responses.
// It is unrelated to the recommendation engine's bounded FIFO cache and
// must stay that way: this one expires, that one evicts by insertion.
type contextCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

// newContextCache creates a cache with the specified TTL.
func newContextCache(ttl time.Duration) *contextCache {
	if ttl == 0 {
		ttl = 5 * time.Minute // Default TTL
	}

	return &contextCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// get retrieves a cached text if it exists and hasn't expired. Expired
// entries are dropped lazily on the next set.
func (c *contextCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return "", false
	}

	if time.Now().After(entry.expiry) {
		return "", false
	}

	return entry.text, true
}

// set stores a text in the cache and sweeps anything already expired.
func (c *contextCache) set(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, entry := range c.entries {
		if now.After(entry.expiry) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = cacheEntry{
		text:   text,
		expiry: now.Add(c.ttl),
	}
}

// size returns the number of entries in the cache.
func (c *contextCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
