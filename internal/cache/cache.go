// Package cache holds read-through caches for derived ledger views. The ledger
// tables stay the only source of truth; everything here can be dropped at any
// time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores JSON values under string keys within one namespace.
//
// Invalidate bumps the namespace generation. Callers read the generation
// before computing a value and build its key with Versioned, so a value
// computed before an invalidation is written under a key nobody reads again.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// Versioned prefixes key with a generation.
func Versioned(generation int64, key string) string {
	return "v" + strconv.FormatInt(generation, 10) + ":" + key
}

type Noop struct{}

func (Noop) Generation(context.Context) (int64, error)      { return 0, nil }
func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) Invalidate(context.Context) error               { return nil }

type Redis struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

const scanCount = 100

func NewRedis(client *redis.Client, namespace string, ttl time.Duration, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, namespace: namespace, ttl: ttl, logger: logger}
}

// Connect opens a client and pings it once.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *Redis) Key(key string) string {
	return c.namespace + ":" + key
}

func (c *Redis) generationKey() string {
	return c.namespace + ":generation"
}

func (c *Redis) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A value we cannot read is as good as absent.
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", c.Key(key)), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.Key(key), raw, c.ttl).Err()
}

// Invalidate moves the namespace to a new generation, then deletes the
// versioned entries using SCAN so the server is never blocked by KEYS.
func (c *Redis) Invalidate(ctx context.Context) error {
	gen, err := c.client.Incr(ctx, c.generationKey()).Result()
	if err != nil {
		return err
	}
	pattern := c.namespace + ":v*"
	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	c.logger.Debug("cache invalidated",
		zap.String("namespace", c.namespace),
		zap.Int64("generation", gen),
		zap.Int("keys", len(keys)))
	return nil
}
