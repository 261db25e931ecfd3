package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/waghrental/rentledger/internal/finance"
	"github.com/waghrental/rentledger/internal/repository/memory"
)

func newMemStore() *memory.Store {
	return memory.NewStore()
}

func repos(m *memory.Store) Repositories {
	return Repositories{
		Properties: m.Properties(),
		Tenants:    m.Tenants(),
		Payments:   m.Payments(),
		Expenses:   m.Expenses(),
	}
}

// countingCache records invalidations on top of a plain map. Like the
// real caches it keys entries by generation and accepts writes for any
// generation.
type countingCache struct {
	mu            sync.Mutex
	data          map[string]any
	gen           int64
	invalidations int
}

func newCountingCache() *countingCache {
	return &countingCache{data: map[string]any{}}
}

func (c *countingCache) Generation(context.Context) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, true
}

func (c *countingCache) Get(_ context.Context, gen int64, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[fmt.Sprintf("%d:%s", gen, key)]
	if !ok {
		return false
	}
	snap, ok := v.(finance.Snapshot)
	if !ok {
		return false
	}
	out, ok := dst.(*finance.Snapshot)
	if !ok {
		return false
	}
	*out = snap
	return true
}

func (c *countingCache) Set(_ context.Context, gen int64, key string, value any, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[fmt.Sprintf("%d:%s", gen, key)] = value
}

func (c *countingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.gen++
	c.data = map[string]any{}
}

func (c *countingCache) Ping(context.Context) error { return nil }

// racingLoader runs onLoad once, after the wrapped load has returned, to
// simulate a write committing while a snapshot is in flight.
type racingLoader struct {
	SnapshotLoader
	onLoad func()
}

func (l *racingLoader) Load(ctx context.Context) (finance.Snapshot, error) {
	snap, err := l.SnapshotLoader.Load(ctx)
	if l.onLoad != nil {
		fn := l.onLoad
		l.onLoad = nil
		fn()
	}
	return snap, err
}
