package query

import (
	"encoding/json"
	"sync"
)

// Cache stores fully enriched query results keyed by query text plus the
// sorted serialization of execution options. There is no eviction: entries
// are inserted only while the count is below the bound, and once full the
// cache stops accepting new entries for the engine's lifetime. The hitRate
// metric is defined against this exact policy.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Result
	max     int
}

// NewCache creates a cache bounded to max entries.
func NewCache(max int) *Cache {
	return &Cache{entries: make(map[string]*Result), max: max}
}

// Get returns the cached result for key, if present.
func (c *Cache) Get(key string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok
}

// Put inserts a result while capacity remains. It reports whether the entry
// was stored.
func (c *Cache) Put(key string, r *Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		return false
	}
	c.entries[key] = r
	return true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey builds the normalized cache key. json.Marshal on a map emits
// keys in sorted order, which gives the sorted options serialization.
func cacheKey(queryText string, opts ExecOptions) string {
	serialized, _ := json.Marshal(map[string]any{
		"maxResults": opts.MaxResults,
		"skipCache":  opts.SkipCache,
	})
	return queryText + "|" + string(serialized)
}
