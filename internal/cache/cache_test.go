package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopNeverHits(t *testing.T) {
	var c Cache = Noop{}
	require.NoError(t, c.Set(context.Background(), "2024-06-15", map[string]int{"a": 1}))
	var dest map[string]int
	hit, err := c.Get(context.Background(), "2024-06-15", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(context.Background()))
	gen, err := c.Generation(context.Background())
	require.NoError(t, err)
	assert.Zero(t, gen)
}

func TestVersionedKeysDifferPerGeneration(t *testing.T) {
	assert.Equal(t, "v0:2024-06-15", Versioned(0, "2024-06-15"))
	assert.Equal(t, "v12:2024-06-15", Versioned(12, "2024-06-15"))
	assert.NotEqual(t, Versioned(1, "2024-06-15"), Versioned(2, "2024-06-15"))
}

func TestRedisKeyNamespacing(t *testing.T) {
	c := NewRedis(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "dashboard", time.Minute, nil)
	assert.Equal(t, "dashboard:2024-06-15", c.Key("2024-06-15"))
	assert.Equal(t, "dashboard:generation", c.generationKey())
}

func TestRedisSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedis(client, "dashboard", time.Minute, nil)
	ctx := context.Background()

	var dest map[string]any
	hit, err := c.Get(ctx, "k", &dest)
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, c.Set(ctx, "k", map[string]int{"a": 1}))
	_, err = c.Generation(ctx)
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(ctx))
}

func TestConnectFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := Connect(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
}
