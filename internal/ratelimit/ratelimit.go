package ratelimit

import (
	"context"
	"time"

	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/cache"
)

const counterKeyPrefix = "ratelimit:"

// Limiter counts requests per client identity inside a window anchored at the
// first request. It rides on the store's atomic increment, so concurrent
// requests cannot race the counter.
type Limiter struct {
	store  cache.Store
	limit  int
	window time.Duration
}

func New(store cache.Store, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow increments the client's counter and reports whether the request is
// within budget. When the store is down the count comes back 0 and every
// request passes: the limiter fails open rather than blocking traffic.
func (l *Limiter) Allow(ctx context.Context, identity string) bool {
	count := l.store.Increment(ctx, counterKeyPrefix+identity, l.window)
	return count <= int64(l.limit)
}

// RetryAfter is the hint callers should return with a rejected request.
func (l *Limiter) RetryAfter() int {
	return int(l.window / time.Second)
}
