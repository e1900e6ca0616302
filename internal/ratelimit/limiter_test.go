package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterWindow(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow(ctx, "ip", 2, time.Minute))
	assert.True(t, l.Allow(ctx, "ip", 2, time.Minute))
	assert.False(t, l.Allow(ctx, "ip", 2, time.Minute))
	assert.True(t, l.Allow(ctx, "other", 2, time.Minute))

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow(ctx, "ip", 2, time.Minute))
}

func TestMemoryLimiterDisabledInputs(t *testing.T) {
	l := NewMemoryLimiter()
	assert.True(t, l.Allow(context.Background(), "", 1, time.Minute))
	assert.True(t, l.Allow(context.Background(), "k", 0, time.Minute))
}

func TestNewFallsBackToMemory(t *testing.T) {
	assert.IsType(t, &MemoryLimiter{}, New(nil))
	var rl *RedisLimiter
	assert.True(t, rl.Allow(context.Background(), "k", 1, time.Second))
}
