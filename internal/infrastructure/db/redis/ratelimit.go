package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

// RateLimiter is a fixed-window request counter shared by every API replica.
// Key format: ratelimit:<client key>:<window start unix>
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

type RateLimiterOption func(*RateLimiter)

// WithNow replaces the clock used to pick the current window.
func WithNow(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) { l.now = now }
}

// NewRateLimiter creates a RateLimiter allowing limit requests per window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{client: client, limit: limit, window: window, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow charges one request to key and reports whether it fits the budget.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	start := l.now().Truncate(l.window)
	k := l.key(key, start)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit: %w", err)
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return ports.RateDecision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   start.Add(l.window),
	}, nil
}

func (l *RateLimiter) key(client string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", client, windowStart.Unix())
}
