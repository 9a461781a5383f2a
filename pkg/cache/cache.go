package cache

import (
	"sync"
	"time"
)

// Cache is a small in-memory TTL cache safe for concurrent use. It backs
// the stats endpoint, which the front-end polls far more often than the
// numbers change.
type Cache struct {
	mu    sync.RWMutex
	items map[string]item
}

type item struct {
	v   any
	exp int64 // unix nanos; 0 = no expiry
}

var (
	defaultCache *Cache
	once         sync.Once
)

// Default returns a process-wide cache instance.
func Default() *Cache {
	once.Do(func() {
		defaultCache = &Cache{items: make(map[string]item)}
		go defaultCache.janitor(time.Minute)
	})
	return defaultCache
}

// Get returns the value and whether it exists and has not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.exp != 0 && it.exp < time.Now().UnixNano() {
		c.Delete(key)
		return nil, false
	}
	return it.v, true
}

// Set stores a value. ttl<=0 means no expiry.
func (c *Cache) Set(key string, v any, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	c.mu.Lock()
	c.items[key] = item{v: v, exp: exp}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *Cache) janitor(every time.Duration) {
	for range time.Tick(every) {
		now := time.Now().UnixNano()
		c.mu.Lock()
		for k, it := range c.items {
			if it.exp != 0 && it.exp < now {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
