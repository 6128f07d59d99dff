// Package ratelimit bounds request rate to a single upstream provider.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket enforcing at most N requests per rolling
// period against one provider. Acquire blocks until a permit is
// available; work is only ever delayed, never dropped. Safe for
// concurrent use.
type Limiter struct {
	bucket *rate.Limiter
}

// New creates a limiter allowing at most requests permits per period.
// A non-positive requests or period yields an unlimited limiter.
func New(requests int, period time.Duration) *Limiter {
	if requests <= 0 || period <= 0 {
		return &Limiter{bucket: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Every(period/time.Duration(requests)), requests),
	}
}

// Acquire blocks until a permit is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}
