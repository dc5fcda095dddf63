// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterSpacing(t *testing.T) {
	const interval = 20 * time.Millisecond
	lm := NewLimiter(interval)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, lm.Wait(context.Background()))
	}
	elapsed := time.Since(start)

	// First slot is immediate; the next two each wait one interval.
	assert.GreaterOrEqual(t, elapsed, 2*interval)
}

func TestLimiterZeroIntervalNeverWaits(t *testing.T) {
	lm := NewLimiter(0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, lm.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLimiterWaitHonorsCancellation(t *testing.T) {
	lm := NewLimiter(time.Hour)
	require.NoError(t, lm.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, lm.Wait(ctx))
}
