package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 2, first.Limit)
	assert.Equal(t, 1, first.Remaining)

	second, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Zero(t, second.Remaining)

	third, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Equal(t, time.Minute, third.RetryAfter)

	// The window expires and the bucket resets.
	now = now.Add(time.Minute)
	fourth, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, fourth.Allowed)
	assert.Equal(t, 1, fourth.Remaining)
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	res, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "another address keeps its own window")
}
