// Package ratelimit bounds how often a key may hit an endpoint within a
// fixed window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter reports whether one more request for key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// MemoryLimiter counts requests per key in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		l.sweep(now)
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets so idle keys do not accumulate.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, key)
		}
	}
}
