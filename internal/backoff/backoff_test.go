// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayDoubles(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
}

func TestDelayDefaultMultiplier(t *testing.T) {
	p := Policy{BaseDelay: time.Second}
	assert.Equal(t, 2*time.Second, p.Delay(1))
}

func TestWithAttempts(t *testing.T) {
	p := Default().WithAttempts(5)
	assert.Equal(t, 5, p.MaxAttempts)

	// Non-positive keeps the existing budget.
	p = Default().WithAttempts(0)
	assert.Equal(t, 3, p.MaxAttempts)
}

func TestWaitHonoursContext(t *testing.T) {
	p := Policy{BaseDelay: time.Minute, Multiplier: 2}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := p.Wait(ctx, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitReturnsAfterDelay(t *testing.T) {
	p := Policy{BaseDelay: time.Millisecond, Multiplier: 2}
	assert.NoError(t, p.Wait(context.Background(), 0))
}
