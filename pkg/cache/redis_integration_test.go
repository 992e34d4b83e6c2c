//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/outreach/pkg/cache"
	"github.com/dmitrymomot/outreach/pkg/redis"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	ctx := context.Background()
	client, err := redis.Open(ctx, url)
	require.NoError(t, err, "failed to connect to Redis")

	t.Cleanup(func() {
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return client
}

type cachedDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func TestRedis_RoundTrip(t *testing.T) {
	client := newTestRedisClient(t)
	c := cache.NewRedis[cachedDraft](client, nil, cache.WithPrefix("test-drafts"))
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	want := cachedDraft{Subject: "Following up", Body: "Hi Bob"}
	require.NoError(t, c.Set(ctx, "k", want, time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, "test-drafts:k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestRedis_NoExpiry(t *testing.T) {
	client := newTestRedisClient(t)
	c := cache.NewRedis[string](client, nil, cache.WithPrefix("test-forever"))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", -1))

	ttl, err := client.TTL(ctx, "test-forever:k").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}

func TestRedis_Loader(t *testing.T) {
	client := newTestRedisClient(t)
	c, err := cache.Open[string](cache.Config{Backend: cache.BackendRedis, Prefix: "test", TTL: time.Minute}, client, "loader")
	require.NoError(t, err)

	l := cache.NewLoader(c)
	ctx := context.Background()

	calls := 0
	for range 2 {
		v, err := l.GetOrSet(ctx, "k", func(context.Context) (string, time.Duration, error) {
			calls++
			return "draft", 0, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "draft", v)
	}
	assert.Equal(t, 1, calls)

	exists, err := client.Exists(ctx, "test:loader:k").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}
