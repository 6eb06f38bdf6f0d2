// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package letter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is best-effort storage. It never reports errors: a failed read is a
// miss and a failed write is dropped. Callers must work without it.
type Cache[T any] interface {
	Get(context context.Context, key string) (T, bool)
	Set(context context.Context, key string, value T, ttl time.Duration)
	Delete(context context.Context, keys ...string)
}

// KV is the subset of the Redis client the cache needs.
type KV interface {
	Get(context context.Context, key string) *redis.StringCmd
	Set(context context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(context context.Context, keys ...string) *redis.IntCmd
}

// RedisCache stores JSON-encoded values in Redis.
type RedisCache[T any] struct {
	kv     KV
	logger *slog.Logger
}

// NewRedisCache constructs a [RedisCache] over kv, normally a *redis.Client.
func NewRedisCache[T any](kv KV, logger *slog.Logger) *RedisCache[T] {
	return &RedisCache[T]{kv: kv, logger: logger}
}

// Get returns the value at key. Missing keys, transport errors and
// undecodable values all read as a miss.
func (c *RedisCache[T]) Get(context context.Context, key string) (T, bool) {
	var value T

	raw, err := c.kv.Get(context, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.DebugContext(context, "cache_get_failed", slog.String("key", key), slog.Any("error", err))
		}
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.DebugContext(context, "cache_decode_failed", slog.String("key", key), slog.Any("error", err))
		var zero T
		return zero, false
	}
	return value, true
}

// Set stores value at key with the given TTL (0 keeps it forever).
func (c *RedisCache[T]) Set(context context.Context, key string, value T, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.DebugContext(context, "cache_encode_failed", slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := c.kv.Set(context, key, raw, ttl).Err(); err != nil {
		c.logger.DebugContext(context, "cache_set_failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Delete removes keys.
func (c *RedisCache[T]) Delete(context context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.kv.Del(context, keys...).Err(); err != nil {
		c.logger.DebugContext(context, "cache_delete_failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}
