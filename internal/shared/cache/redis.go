package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-builder/internal/shared/telemetry"
)

const defaultTTL = 10 * time.Minute

// Redis is a JSON cache that degrades to a no-op when Redis is unreachable.
type Redis struct {
	client     redis.UniversalClient
	defaultTTL time.Duration

	warnedUnavailable atomic.Bool
}

// NewRedis connects to redisURL (redis:// or rediss://). An empty URL or a failed
// ping yields a bypassing cache rather than an error.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	redisURL = strings.TrimSpace(redisURL)
	if redisURL == "" {
		return &Redis{defaultTTL: ttl}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		telemetry.Warn("cache.redis_url_invalid", map[string]any{"error": err})
		return &Redis{defaultTTL: ttl}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		telemetry.Warn("cache.redis_unavailable", map[string]any{"error": err, "addr": opts.Addr})
		_ = client.Close()
		return &Redis{defaultTTL: ttl}
	}

	return &Redis{client: client, defaultTTL: ttl}
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, defaultTTL: ttl}
}

// Available reports whether a live client is attached.
func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		telemetry.Warn("cache.redis_error", map[string]any{"error": err})
	}
}

// GetJSON loads key into out. The bool is false on a miss or when bypassing.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key; ttl <= 0 uses the cache default.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Available() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}
