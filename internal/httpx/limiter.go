// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpx provides the shared HTTP plumbing for the pipeline: the
// outbound rate limiter, the shared client, and the response classifier.
package httpx

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval is the default spacing between outbound requests.
const DefaultMinInterval = time.Second

// Limiter enforces a minimum spacing between any two outbound requests
// issued by the pipeline. One Limiter is shared across all sources and the
// acquisition stage; it is a single clock, not a per-source budget.
//
// The limiter is deliberately coarse: it keeps the pipeline a well-behaved
// client, it is not a precision scheduler.
type Limiter struct {
	l *rate.Limiter
}

// NewLimiter returns a Limiter with the given minimum interval between
// requests. Non-positive intervals produce a limiter that never waits,
// which tests use to avoid real sleeps.
func NewLimiter(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		return &Limiter{l: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{l: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the next request slot is available. The worst case is
// one full interval. It fails only when ctx is cancelled.
func (lm *Limiter) Wait(ctx context.Context) error {
	return lm.l.Wait(ctx)
}
