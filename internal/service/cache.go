package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/shininglight/church-api/pkg/errors"
)

// listCache abstracts the Redis-backed list cache. Content services read
// lists through it and invalidate by pattern after every mutation.
type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// InstrumentedCache counts hits and misses on top of an underlying cache.
type InstrumentedCache struct {
	cache   listCache
	metrics *MetricsService
}

// NewInstrumentedCache wraps cache with Prometheus counters. A nil cache is
// passed through so services still degrade to direct reads.
func NewInstrumentedCache(cache listCache, metrics *MetricsService) *InstrumentedCache {
	return &InstrumentedCache{cache: cache, metrics: metrics}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.cache == nil {
		c.metrics.RecordCacheOperation(false)
		return appErrors.ErrCacheMiss
	}
	err := c.cache.Get(ctx, key, dest)
	c.metrics.RecordCacheOperation(err == nil)
	return err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Set(ctx, key, value, ttl)
}

func (c *InstrumentedCache) DeleteByPattern(ctx context.Context, pattern string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.DeleteByPattern(ctx, pattern)
}

// cacheReader wraps a listCache with TTL and failure tolerance: a broken
// cache is a miss on read and a logged warning on write, never an error.
type cacheReader struct {
	cache  listCache
	ttl    time.Duration
	logger *zap.Logger
}

func newCacheReader(cache listCache, ttl time.Duration, logger *zap.Logger) cacheReader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return cacheReader{cache: cache, ttl: ttl, logger: logger}
}

func (c cacheReader) get(ctx context.Context, key string, dest interface{}) bool {
	if c.cache == nil {
		return false
	}
	if err := c.cache.Get(ctx, key, dest); err != nil {
		return false
	}
	return true
}

func (c cacheReader) set(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c cacheReader) invalidate(ctx context.Context, pattern string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.DeleteByPattern(ctx, pattern); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
