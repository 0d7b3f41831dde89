// Package ratelimit provides per-key token buckets for outbound calls to external services.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter keeps one limiter per key, typically an upstream host.
// Limiters idle for longer than the idle window are dropped on the next access.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing rps requests per second per key with the given burst.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether a call for key may proceed now.
func (k *KeyedRateLimiter) Allow(key string) bool {
	return k.get(key).Allow()
}

// Wait blocks until a call for key may proceed or ctx is done.
func (k *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return k.get(key).Wait(ctx)
}

// Len returns the number of tracked keys.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

func (k *KeyedRateLimiter) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	for name, e := range k.limiters {
		if name != key && now.Sub(e.lastSeen) > k.idle {
			delete(k.limiters, name)
		}
	}

	e, ok := k.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}
