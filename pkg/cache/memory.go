package cache

import (
	"context"
	"reflect"
	"sync"
	"time"
)

type memItem struct {
	value    interface{}
	expireAt time.Time
	lastUsed time.Time
}

func (it *memItem) expired(now time.Time) bool {
	return now.After(it.expireAt)
}

// MemoryCache is an in-process Service with LRU eviction and a background
// janitor. Values are stored as-is, so Get can hand back typed structs
// without a serialization round trip.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]*memItem
	maxSize int
	stop    chan struct{}
	once    sync.Once
}

const memDefaultTTL = 7 * 24 * time.Hour

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		items:   make(map[string]*memItem),
		maxSize: cfg.MaxSize,
		stop:    make(chan struct{}),
	}
	go mc.janitor(cfg.CleanupInterval)
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = memDefaultTTL
	}
	now := time.Now()

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.items) >= mc.maxSize {
		mc.evictOldestLocked()
	}
	mc.items[key] = &memItem{value: value, expireAt: now.Add(expiration), lastUsed: now}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	now := time.Now()

	mc.mu.Lock()
	defer mc.mu.Unlock()

	it, ok := mc.items[key]
	if !ok {
		return ErrCacheMiss
	}
	if it.expired(now) {
		delete(mc.items, key)
		return ErrCacheMiss
	}
	it.lastUsed = now

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrBadDest
	}
	sv := reflect.ValueOf(it.value)
	if !sv.IsValid() || !sv.Type().AssignableTo(rv.Elem().Type()) {
		return ErrCacheMiss
	}
	rv.Elem().Set(sv)
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		delete(mc.items, key)
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	now := time.Now()
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		if it, ok := mc.items[key]; ok && !it.expired(now) {
			return true, nil
		}
	}
	return false, nil
}

func (mc *MemoryCache) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	it, ok := mc.items[key]
	if !ok {
		return false, nil
	}
	it.expireAt = time.Now().Add(expiration)
	return true, nil
}

func (mc *MemoryCache) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if it, ok := mc.items[key]; ok && !it.expired(now) {
		return false, nil
	}
	mc.items[key] = &memItem{value: "locked", expireAt: now.Add(ttl), lastUsed: now}
	return true, nil
}

func (mc *MemoryCache) Unlock(ctx context.Context, key string) error {
	return mc.Delete(ctx, key)
}

func (mc *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, it := range mc.items {
		if oldestKey == "" || it.lastUsed.Before(oldest) {
			oldest = it.lastUsed
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(mc.items, oldestKey)
	}
}

func (mc *MemoryCache) janitor(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-mc.stop:
			return
		case <-t.C:
			now := time.Now()
			mc.mu.Lock()
			for key, it := range mc.items {
				if it.expired(now) {
					delete(mc.items, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}

// Close stops the janitor goroutine.
func (mc *MemoryCache) Close() error {
	mc.once.Do(func() { close(mc.stop) })
	return nil
}
