package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the single-instance fallback when Redis is not
// configured. Windows are pruned lazily on access.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter constructs an in-process fixed-window limiter.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.count++

	res := Result{
		Allowed:   b.count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-b.count, 0),
	}
	if !res.Allowed {
		res.RetryAfter = b.resetAt.Sub(now)
	}
	return res, nil
}
