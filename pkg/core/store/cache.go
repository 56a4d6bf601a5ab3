package store

import (
	"fmt"
	"sync"
	"time"
)

// QueryCache is a pull-through cache for query results, keyed by query name
// plus its bound parameters. Entries expire after a fixed TTL; the underlying
// data only changes once a day (after the disclosure deadline), so an hour of
// staleness is acceptable and saves a round trip per dashboard refresh.
//
// The cache is constructor-injected into each repo. Passing nil disables
// caching, which is what the tests do.
type QueryCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	data     interface{}
	storedAt time.Time
}

// NewQueryCache creates a cache with the given TTL. Non-positive TTL entries
// never expire.
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Key builds a cache key from a query name and its parameters.
func Key(name string, params ...interface{}) string {
	return fmt.Sprintf("%s|%v", name, params)
}

// Get returns the cached value for key if present and fresh.
func (c *QueryCache) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.data, true
}

// Put stores a value under key, stamping it with the current time.
func (c *QueryCache) Put(key string, data interface{}) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, storedAt: c.now()}
	c.mu.Unlock()
}

// Purge drops every entry. Used when an ingest run lands new rows.
func (c *QueryCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len reports the number of live entries, expired or not.
func (c *QueryCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
