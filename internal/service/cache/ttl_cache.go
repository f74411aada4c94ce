package cache

import (
	"sync"
	"time"
)

type ttlEntry struct {
	data []byte
	exp  time.Time
}

func (e ttlEntry) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// TTLCache is an in-process BytesCache. Entries are evicted lazily on
// read and swept wholesale once the map grows past sweepThreshold.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
}

const sweepThreshold = 4096

func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]ttlEntry)}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(now) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	if len(c.entries) >= sweepThreshold {
		c.sweepLocked()
	}
	c.entries[key] = ttlEntry{data: value, exp: exp}
	c.mu.Unlock()
	return nil
}

func (c *TTLCache) sweepLocked() {
	now := time.Now()
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
}
