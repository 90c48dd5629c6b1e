package redisclient

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client wraps a Redis client with OpenTelemetry tracing
type Client struct {
	cmdable redis.Cmdable
}

// NewClient creates a new traced Redis client for single Redis instance
func NewClient(client *redis.Client) *Client {
	return &Client{cmdable: client}
}

// NewClusterClient creates a new traced Redis client for Redis cluster
func NewClusterClient(client *redis.ClusterClient) *Client {
	return &Client{cmdable: client}
}

// startSpan opens a span for one command and returns a finisher that records
// duration and the command's error. redis.Nil is a cache miss, not an error.
func startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	attrs = append(attrs,
		attribute.String("redis.operation", op),
		attribute.String("redis.client", "app-dept-pages"),
	)
	ctx, span := otel.Tracer("redis").Start(ctx, "redis."+op, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		duration := time.Since(start)
		span.SetAttributes(
			attribute.Int64("redis.duration_ms", duration.Milliseconds()),
			attribute.String("redis.duration", duration.String()),
		)
		if err != nil && !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("redis.error", err.Error()))
		} else {
			span.SetStatus(codes.Ok, "success")
		}
		span.End()
	}
}

// Get wraps Redis Get with tracing
func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	ctx, finish := startSpan(ctx, "get", attribute.String("redis.key", key))
	cmd := c.cmdable.Get(ctx, key)
	finish(cmd.Err())
	return cmd
}

// Set wraps Redis Set with tracing
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	ctx, finish := startSpan(ctx, "set",
		attribute.String("redis.key", key),
		attribute.String("redis.expiration", expiration.String()),
	)
	cmd := c.cmdable.Set(ctx, key, value, expiration)
	finish(cmd.Err())
	return cmd
}

// Del wraps Redis Del with tracing
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	ctx, finish := startSpan(ctx, "del",
		attribute.StringSlice("redis.keys", keys),
		attribute.Int("redis.key_count", len(keys)),
	)
	cmd := c.cmdable.Del(ctx, keys...)
	finish(cmd.Err())
	return cmd
}

// Keys wraps Redis Keys with tracing. Only used by maintenance paths and tests.
func (c *Client) Keys(ctx context.Context, pattern string) *redis.StringSliceCmd {
	ctx, finish := startSpan(ctx, "keys", attribute.String("redis.pattern", pattern))
	cmd := c.cmdable.Keys(ctx, pattern)
	finish(cmd.Err())
	return cmd
}

// Ping wraps Redis Ping with tracing
func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	ctx, finish := startSpan(ctx, "ping")
	cmd := c.cmdable.Ping(ctx)
	finish(cmd.Err())
	return cmd
}
