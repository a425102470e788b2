// Package ratelimit provides a keyed token-bucket rate limiter. The public API
// uses it per client IP, and the GitHub client uses a single key for outbound
// pacing.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused key keeps its limiter.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter; keys idle for longer
// than the idle TTL are evicted by a background sweep.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a KeyedRateLimiter.
type Option func(*KeyedRateLimiter)

// WithIdleTTL overrides DefaultIdleTTL.
func WithIdleTTL(ttl time.Duration) Option {
	return func(krl *KeyedRateLimiter) { krl.idleTTL = ttl }
}

// New creates a keyed rate limiter allowing rps requests per second per key
// with bursts of up to burst.
func New(rps float64, burst int, opts ...Option) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  DefaultIdleTTL,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(krl)
	}

	go krl.cleanup()

	return krl
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking. Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or context is canceled.
// Use for outbound requests where you want to respect rate limits.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// Len reports how many keys currently hold a limiter.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	e, ok := krl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = e
	}
	e.lastSeen = krl.now()
	return e.limiter
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) cleanup() {
	interval := krl.idleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case <-ticker.C:
			krl.evictIdle()
		}
	}
}

// evictIdle drops keys not seen within the idle TTL.
func (krl *KeyedRateLimiter) evictIdle() {
	cutoff := krl.now().Add(-krl.idleTTL)

	krl.mu.Lock()
	defer krl.mu.Unlock()
	for key, e := range krl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(krl.limiters, key)
		}
	}
}
