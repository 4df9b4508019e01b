package memory

import (
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("cache: not found")

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a string-keyed map safe for concurrent use. Entries stored with a
// non-positive ttl never expire.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
}

func NewCache[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]cacheEntry[V]),
	}
}

func (c *Cache[V]) Get(key string) (V, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return zero, ErrNotFound
	}
	return entry.value, nil
}

func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	entry := cacheEntry[V]{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Keys returns the live keys in no particular order.
func (c *Cache[V]) Keys() []string {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}
