// Package ratelimit protects the public, unauthenticated submit endpoint
// with a per-IP fixed-window limit. The limiter fails open: an unavailable
// backend slows abuse response, it never blocks legitimate registrants.
package ratelimit

import (
	"context"
	"time"
)

// Result is one limit decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a keyed request may proceed in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
