package api

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/stockaura/pkg/redis"
)

// Limiter decides whether a client may make another request
type Limiter interface {
	Allow(ctx context.Context, client string) (bool, error)
}

// RedisLimiter shares one sliding window per client across instances
type RedisLimiter struct {
	limiter *redis.RateLimiter
	limit   int
	window  time.Duration
}

// NewRedisLimiter creates a Redis-backed limiter
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis.NewRateLimiter(client, "stockaura"),
		limit:   limit,
		window:  window,
	}
}

// Allow implements Limiter
func (l *RedisLimiter) Allow(ctx context.Context, client string) (bool, error) {
	ok, _, err := l.limiter.Allow(ctx, redis.APIRateLimit(client, l.limit, l.window))
	return ok, err
}

// LocalLimiter is a per-process token bucket per client, used without Redis.
// A bucket idle for a full window is refilled, so it is evicted on the next sweep.
type LocalLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows limit requests per window with a burst of limit
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		buckets: make(map[string]*localBucket),
		limit:   rate.Limit(float64(limit) / window.Seconds()),
		burst:   limit,
		idle:    window,
		now:     time.Now,
	}
}

// Allow implements Limiter
func (l *LocalLimiter) Allow(_ context.Context, client string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	b, ok := l.buckets[client]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[client] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// sweep drops buckets idle for at least one window (caller holds mu)
func (l *LocalLimiter) sweep(now time.Time) {
	for client, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, client)
		}
	}
	l.lastSweep = now
}

// Clients returns the number of tracked clients
func (l *LocalLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
