package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

// Cache is a size-bounded LRU whose entries expire after a per-key TTL.
// Safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	now     func() time.Time
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, now: time.Now}, nil
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.entries.Add(key, cacheEntry{value: value, expires: c.now().Add(ttl)})
}

// Get returns nil for a miss. Expired entries are evicted on read.
func (c *Cache) Get(key string) interface{} {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	if !c.now().Before(e.expires) {
		c.entries.Remove(key)
		return nil
	}
	return e.value
}

func (c *Cache) Delete(key string) {
	c.entries.Remove(key)
}
