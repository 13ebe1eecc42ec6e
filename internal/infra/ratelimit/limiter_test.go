package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(3, time.Minute, 0)
	l.now = clock.now

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	other, _ := l.Allow(ctx, "5.6.7.8")
	assert.True(t, other)

	clock.advance(time.Minute)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
}

func TestMemoryLimiter_BoundedByCapacity(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(1, time.Minute, 3)
	l.now = clock.now

	for i := 0; i < 10; i++ {
		clock.advance(time.Second)
		_, err := l.Allow(ctx, fmt.Sprintf("10.0.0.%d", i))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, l.Len())
}

func TestMemoryLimiter_SweepsExpiredBeforeEvicting(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(1, time.Minute, 2)
	l.now = clock.now

	l.Allow(ctx, "a")
	l.Allow(ctx, "b")
	clock.advance(2 * time.Minute)
	l.Allow(ctx, "c")

	assert.Equal(t, 1, l.Len())
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewRedisLimiter(client, "rl:import:", 2, time.Minute)
	l.now = clock.now

	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, mr.TTL(keys[0]) > 0)

	clock.advance(time.Minute)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
}

func TestRedisLimiter_ErrorWhenUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisLimiter(client, "rl:", 1, time.Minute).Allow(context.Background(), "k")

	assert.Error(t, err)
}
