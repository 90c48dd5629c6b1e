package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"github.com/viet-college/app-dept-pages/internal/redisclient"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.uber.org/zap"
)

// jsonCache stores JSON values in Redis. A nil client disables caching, and
// Redis failures only ever degrade to a miss.
type jsonCache struct {
	client *redisclient.Client
	logger *logging.SafeLogger
}

func newJSONCache(client *redisclient.Client, logger *logging.SafeLogger) *jsonCache {
	return &jsonCache{client: client, logger: logger}
}

// get decodes the cached value into dest and reports whether it was a hit
func (c *jsonCache) get(ctx context.Context, key, operation string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	ctx, span := utils.TraceCacheGet(ctx, key)
	defer span.End()

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		observability.CacheMisses.WithLabelValues(operation).Inc()
		return false
	}

	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		observability.CacheMisses.WithLabelValues(operation).Inc()
		return false
	}

	observability.CacheHits.WithLabelValues(operation).Inc()
	return true
}

func (c *jsonCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	ctx, span := utils.TraceCacheSet(ctx, key, ttl)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("failed to write cache entry", zap.String("key", key), zap.Error(err))
	}
}

func (c *jsonCache) del(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	ctx, span := utils.TraceCacheInvalidation(ctx, keys[0])
	defer span.End()

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("failed to invalidate cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// delPattern removes every key matching pattern
func (c *jsonCache) delPattern(ctx context.Context, pattern string) int {
	if c == nil || c.client == nil {
		return 0
	}
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		c.logger.Warn("failed to list cache keys", zap.String("pattern", pattern), zap.Error(err))
		return 0
	}
	c.del(ctx, keys...)
	return len(keys)
}
