package recommend

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cardwise/internal/model"
)

// DefaultCacheCapacity bounds the recommendation cache when no capacity is
// configured.
const DefaultCacheCapacity = 100

// Cache memoizes composed responses keyed by query and card set. Eviction
// is approximate insertion order: once over capacity the oldest inserted
// entry goes first, and reads never refresh an entry's position. This is
// deliberately not an LRU. Entries have no TTL; the augmentation context
// cache is a separate thing with its own expiry.
type Cache struct {
	entries  map[string]model.RecommendationResponse
	order    []string
	capacity int
	mu       sync.Mutex
}

// NewCache creates a bounded cache. Non-positive capacities fall back to
// the default.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		entries:  make(map[string]model.RecommendationResponse),
		capacity: capacity,
	}
}

// Key derives the deterministic cache key for a query against a card
// snapshot. The query text is normalized and card IDs are sorted first,
// so the key is stable regardless of input ordering.
func Key(queryText string, cards []model.Card) string {
	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}
	sort.Strings(ids)

	normalized := strings.Join(strings.Fields(strings.ToLower(queryText)), " ")

	hash := sha256.Sum256([]byte(normalized + "\n" + strings.Join(ids, "\n")))
	return fmt.Sprintf("%x", hash)
}

// Get returns the cached response for key, if present.
func (c *Cache) Get(key string) (model.RecommendationResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, ok := c.entries[key]
	return resp, ok
}

// Put stores a response, evicting the oldest inserted entries once the
// cache is full. Re-putting an existing key updates the value in place
// without refreshing its eviction position.
func (c *Cache) Put(key string, resp model.RecommendationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = resp
		return
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = resp
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]model.RecommendationResponse)
	c.order = nil
}
