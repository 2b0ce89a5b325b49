// Package cache is an optional read-through cache for public listings.
// A nil or unreachable Redis turns every call into a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "coursebook:"

type Redis struct {
	client *redis.Client
	logger *slog.Logger

	warnedUnavailable atomic.Bool
}

// NewRedis returns a cache that bypasses itself when addr is empty or the
// server does not answer a ping.
func NewRedis(addr, password string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		return &Redis{logger: logger}
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing cache", "addr", addr, "err", err)
		_ = client.Close()
		return &Redis{logger: logger}
	}
	return &Redis{client: client, logger: logger}
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, logger: logger}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis error, bypassing cache", "err", err)
	}
}

// GetJSON decodes the cached value into dest and reports a hit.
func (r *Redis) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if r.isUnavailable() {
		return false
	}
	b, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.warnOnce(err)
		}
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		r.logger.Warn("cache entry undecodable", "key", key, "err", err)
		return false
	}
	return true
}

func (r *Redis) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if r.isUnavailable() || ttl <= 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, keyPrefix+key, b, ttl).Err(); err != nil {
		r.warnOnce(err)
	}
}

func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if r.isUnavailable() || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		r.warnOnce(err)
	}
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}
