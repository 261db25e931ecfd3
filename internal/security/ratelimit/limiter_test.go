package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowSlidingWindow(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	defer l.Stop()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestAllowDisabled(t *testing.T) {
	l := NewLimiter(0, time.Minute)
	defer l.Stop()
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.True(t, NewLimiter(1, time.Minute).Allow(""))
}

func TestEvictStaleBuckets(t *testing.T) {
	l := NewLimiter(5, time.Minute)
	defer l.Stop()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.Allow("a")

	l.evict(now.Add(time.Second))
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.buckets)
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	l.Stop()
	l.Stop()
}
