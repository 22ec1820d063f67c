package cache

// In-memory TTL cache used as pure memoization around the aggregators
// Never required for correctness: a miss just means a fresh fetch
// Safe for concurrent use from multiple analysis requests

import (
	"sync"
	"time"
)

type entry struct {
	value  interface{}
	expiry time.Time
}

// Cache is a TTL keyed store. Expired entries are dropped lazily on
// read and swept by Cleanup.
type Cache struct {
	mutex      sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
}

// New creates a cache with the given default TTL.
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
	}
}

// Get returns the stored value and whether it is present and fresh.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mutex.RLock()
	e, ok := c.entries[key]
	c.mutex.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiry) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores a value. A zero ttl uses the cache default.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mutex.Lock()
	c.entries[key] = entry{value: value, expiry: time.Now().Add(ttl)}
	c.mutex.Unlock()
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	delete(c.entries, key)
	c.mutex.Unlock()
}

// Cleanup removes all expired entries.
func (c *Cache) Cleanup() {
	now := time.Now()
	c.mutex.Lock()
	for key, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, key)
		}
	}
	c.mutex.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// StartJanitor sweeps expired entries on the given interval until
// stop is closed.
func (c *Cache) StartJanitor(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
