package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	g := NewMemoryGuard(time.Minute)
	g.now = func() time.Time { return now }

	ok, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = g.Acquire(ctx, "k")
	assert.False(t, ok, "second acquire inside window")

	now = now.Add(61 * time.Second)
	ok, _ = g.Acquire(ctx, "k")
	assert.True(t, ok, "acquire after expiry")

	require.NoError(t, g.Release(ctx, "k"))
	ok, _ = g.Acquire(ctx, "k")
	assert.True(t, ok, "acquire after release")
}

func TestSubmissionKey(t *testing.T) {
	assert.Equal(t, "manual:user-1:emp-1:2024-01-15", SubmissionKey("manual", "user-1", "emp-1", "2024-01-15"))
}

func TestRedisSubmissionGuard(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	g := NewSubmissionGuard(client, 2*time.Second)
	key := SubmissionKey("test", time.Now().Format(time.RFC3339Nano))

	ok, err := g.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Release(ctx, key))
	ok, err = g.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, g.Release(ctx, key))
}
