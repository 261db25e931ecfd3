package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/waghrental/rentledger/internal/observability/metrics"
	"github.com/waghrental/rentledger/internal/reliability/circuitbreaker"
	"github.com/waghrental/rentledger/pkg/cache"
)

// reportKeyPrefix namespaces every cached report value. Entries live under
// reportKeyPrefix+"<generation>:<key>"; generationKey sits outside it.
const (
	reportKeyPrefix = "rentledger:report:"
	generationKey   = "rentledger:report-generation"
)

func entryKey(gen int64, key string) string {
	return reportKeyPrefix + strconv.FormatInt(gen, 10) + ":" + key
}

// Store is the byte-level key/value API the Redis cache is built on.
// infrastructure/redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Ping(ctx context.Context) error
}

// RedisReportCache keeps JSON-encoded report inputs in Redis. A circuit
// breaker stops it from hammering an unavailable server; while the circuit
// is open every lookup misses and writes are dropped.
//
// Invalidation advances a generation counter stored in Redis, so a value
// computed before a write can only land under a generation nobody reads
// any more. An invalidation that fails is remembered and retried before the
// cache is trusted again.
type RedisReportCache struct {
	store   Store
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
	pending atomic.Bool
}

// NewRedisReportCache creates a Redis-backed report cache
func NewRedisReportCache(store Store, breaker *circuitbreaker.CircuitBreaker, logger *slog.Logger) *RedisReportCache {
	if logger == nil {
		logger = slog.Default()
	}
	if breaker == nil {
		breaker = circuitbreaker.New("redis", 5, 2, 30*time.Second)
	}
	return &RedisReportCache{store: store, breaker: breaker, logger: logger}
}

// Generation returns the current cache generation. ok is false when the
// cache cannot be trusted: Redis is unreachable or an invalidation is still
// outstanding.
func (c *RedisReportCache) Generation(ctx context.Context) (int64, bool) {
	if c.pending.Load() && !c.bump(ctx) {
		metrics.ObserveCache("redis", "bypass")
		return 0, false
	}
	var gen int64
	err := c.breaker.Execute(func() error {
		data, found, err := c.store.Get(ctx, generationKey)
		if err != nil || !found {
			return err
		}
		gen, err = strconv.ParseInt(string(data), 10, 64)
		return err
	}, nil)
	if err != nil {
		if !errors.Is(err, circuitbreaker.ErrOpen) {
			c.logger.Warn("report cache generation read failed", slog.String("error", err.Error()))
		}
		metrics.ObserveCache("redis", "bypass")
		return 0, false
	}
	return gen, true
}

// Get decodes the value stored under key in generation gen into dst. It
// reports false on a miss or on any cache failure.
func (c *RedisReportCache) Get(ctx context.Context, gen int64, key string, dst any) bool {
	var data []byte
	var found bool
	err := c.breaker.Execute(func() error {
		var err error
		data, found, err = c.store.Get(ctx, entryKey(gen, key))
		return err
	}, nil)
	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		metrics.ObserveCache("redis", "bypass")
		return false
	case err != nil:
		metrics.ObserveCache("redis", "error")
		c.logger.Warn("report cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	case !found:
		metrics.ObserveCache("redis", "miss")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.ObserveCache("redis", "error")
		c.logger.Warn("report cache entry corrupt", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	metrics.ObserveCache("redis", "hit")
	return true
}

// Set stores value under key in generation gen for ttl. Failures are
// logged, not returned.
func (c *RedisReportCache) Set(ctx context.Context, gen int64, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("report cache encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	err = c.breaker.Execute(func() error {
		return c.store.Set(ctx, entryKey(gen, key), data, ttl)
	}, nil)
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpen) {
		c.logger.Warn("report cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Invalidate retires every cached report by advancing the generation, then
// removes the old entries. If the generation cannot be advanced the cache
// is bypassed until it can.
func (c *RedisReportCache) Invalidate(ctx context.Context) {
	if !c.bump(ctx) {
		return
	}
	n, err := c.store.DeletePrefix(ctx, reportKeyPrefix)
	if err != nil {
		c.logger.Debug("report cache cleanup failed", slog.String("error", err.Error()))
		return
	}
	c.logger.Debug("report cache invalidated", slog.Int("keys", n))
}

func (c *RedisReportCache) bump(ctx context.Context) bool {
	err := c.breaker.Execute(func() error {
		_, err := c.store.Incr(ctx, generationKey)
		return err
	}, nil)
	if err != nil {
		c.pending.Store(true)
		c.logger.Warn("report cache invalidate failed", slog.String("error", err.Error()))
		return false
	}
	c.pending.Store(false)
	return true
}

// Ping checks the backing server directly, bypassing the breaker.
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// MemoryReportCache is the single-process fallback used when no Redis URL
// is configured. Values are stored JSON-encoded so callers never share
// slices with the cache.
type MemoryReportCache struct {
	items *cache.Cache[[]byte]
	gen   atomic.Int64
}

// NewMemoryReportCache creates an in-process report cache
func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{items: cache.New[[]byte]()}
}

// Generation returns the current generation; it is always usable.
func (c *MemoryReportCache) Generation(context.Context) (int64, bool) {
	return c.gen.Load(), true
}

// Get decodes the value under key in generation gen into dst.
func (c *MemoryReportCache) Get(_ context.Context, gen int64, key string, dst any) bool {
	data, ok := c.items.Get(entryKey(gen, key))
	if !ok {
		metrics.ObserveCache("memory", "miss")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.ObserveCache("memory", "error")
		return false
	}
	metrics.ObserveCache("memory", "hit")
	return true
}

// Set stores value under key in generation gen for ttl. A value for a
// retired generation is dropped.
func (c *MemoryReportCache) Set(_ context.Context, gen int64, key string, value any, ttl time.Duration) {
	if gen != c.gen.Load() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.items.Sweep()
	c.items.Set(entryKey(gen, key), data, ttl)
}

// Invalidate retires every cached report.
func (c *MemoryReportCache) Invalidate(context.Context) {
	c.gen.Add(1)
	c.items.Invalidate(reportKeyPrefix)
}

// Ping always succeeds.
func (c *MemoryReportCache) Ping(context.Context) error {
	return nil
}
