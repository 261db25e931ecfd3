package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGet(t *testing.T) {
	c := New[string]()
	c.Set("key1", "value1", time.Second)
	val, ok := c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", val)
}

func TestExpiration(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	c := New[int]()
	c.now = func() time.Time { return now }

	c.Set("key1", 1, 100*time.Millisecond)
	now = now.Add(150 * time.Millisecond)
	_, ok := c.Get("key1")
	assert.False(t, ok, "expired key must miss")

	assert.Equal(t, 1, c.Sweep())
	assert.Zero(t, c.Len())
}

func TestInvalidate(t *testing.T) {
	c := New[string]()
	c.Set("report:snapshot", "s", time.Second)
	c.Set("report:dashboard", "d", time.Second)
	c.Set("other:1", "o", time.Second)
	c.Invalidate("report:")

	_, ok1 := c.Get("report:snapshot")
	_, ok2 := c.Get("report:dashboard")
	_, ok3 := c.Get("other:1")
	assert.False(t, ok1)
	assert.False(t, ok2)
	assert.True(t, ok3)
	assert.Equal(t, 1, c.Len())
}
