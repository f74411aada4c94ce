package ratelimit

import (
    "sync"
    "time"
)

// bucket is a token bucket for a single caller key.
type bucket struct {
    tokens   float64
    capacity float64
    refill   float64 // tokens per second
    last     time.Time
}

func (b *bucket) top(now time.Time) {
    elapsed := now.Sub(b.last).Seconds()
    if elapsed <= 0 {
        return
    }
    b.tokens += elapsed * b.refill
    if b.tokens > b.capacity {
        b.tokens = b.capacity
    }
    b.last = now
}

// Limiter is a keyed token-bucket limiter. Fit endpoints use it per
// client IP so one caller cannot saturate the grid-search workers.
type Limiter struct {
    mu      sync.Mutex
    buckets map[string]*bucket
}

func New() *Limiter { return &Limiter{buckets: make(map[string]*bucket)} }

// Allow consumes one token for key, creating a full bucket on first use.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
    now := time.Now()
    l.mu.Lock()
    defer l.mu.Unlock()

    b, ok := l.buckets[key]
    if !ok {
        b = &bucket{tokens: capacity, capacity: capacity, refill: refillPerSec, last: now}
        l.buckets[key] = b
    }
    b.top(now)
    if b.tokens < 1 {
        return false
    }
    b.tokens--
    return true
}
