// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backoff provides the exponential backoff policy shared by the
// model client and the content fetcher.
package backoff

import (
	"context"
	"math"
	"time"
)

// Policy describes a bounded exponential backoff: attempt n waits
// BaseDelay * Multiplier^n before running. MaxAttempts counts total
// attempts, not retries.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// Default is the retry discipline for model calls: 3 attempts with
// 1s, 2s waits between them.
func Default() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}
}

// WithAttempts returns a copy of the policy with MaxAttempts set, keeping
// the default when n is not positive.
func (p Policy) WithAttempts(n int) Policy {
	if n > 0 {
		p.MaxAttempts = n
	}
	return p
}

// Delay returns the wait before retry number attempt (0-based): BaseDelay
// doubled (or whatever Multiplier is) per attempt.
func (p Policy) Delay(attempt int) time.Duration {
	mult := p.Multiplier
	if mult <= 0 {
		mult = 2
	}
	return time.Duration(float64(p.BaseDelay) * math.Pow(mult, float64(attempt)))
}

// Wait sleeps for Delay(attempt) or returns early with ctx.Err() if the
// context is cancelled during the wait.
func (p Policy) Wait(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.Delay(attempt)):
		return nil
	}
}
