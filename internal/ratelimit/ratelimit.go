// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit gates outbound requests so each metadata provider
// sees at most one request per configured minimum interval. Providers
// are gated independently; waiting on one never delays another.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Default minimum intervals between requests per provider policy.
// arXiv asks for no more than 1 request every ~334ms (about 3 req/s);
// CrossRef, Semantic Scholar, and OpenAlex tolerate ~10 req/s.
const (
	DefaultArxivInterval           = 334 * time.Millisecond
	DefaultCrossRefInterval        = 100 * time.Millisecond
	DefaultSemanticScholarInterval = 100 * time.Millisecond
	DefaultOpenAlexInterval        = 100 * time.Millisecond
)

// Limiter is a per-provider minimum-interval gate. Burst 1 means each
// acquisition must wait out the full interval since the previous one,
// with FIFO wake order among concurrent waiters.
type Limiter struct {
	limiter *rate.Limiter
}

// New returns a Limiter enforcing the given minimum interval between
// acquisitions. A non-positive interval disables gating.
func New(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the interval since the previous acquisition has
// elapsed or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
