package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*FollowingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewFollowingCache(client, time.Minute), mr
}

func TestSetAndGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, 1, []uint{2, 3, 4})

	ids, hit := c.Get(ctx, 1)
	require.True(t, hit)
	assert.Equal(t, []uint{2, 3, 4}, ids)
}

func TestGetMissesForUnknownUser(t *testing.T) {
	c, _ := newTestCache(t)

	_, hit := c.Get(context.Background(), 99)
	assert.False(t, hit)
}

func TestEmptySetIsAHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	// A user following nobody is still a cacheable answer.
	c.Set(ctx, 1, nil)

	ids, hit := c.Get(ctx, 1)
	require.True(t, hit)
	assert.Empty(t, ids)
}

func TestInvalidateDropsEntry(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, 1, []uint{2})
	c.Invalidate(ctx, 1)

	_, hit := c.Get(ctx, 1)
	assert.False(t, hit)
}

func TestEntryExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, 1, []uint{2})
	mr.FastForward(2 * time.Minute)

	_, hit := c.Get(ctx, 1)
	assert.False(t, hit)
}

func TestNilCacheIsNoOp(t *testing.T) {
	var c *FollowingCache
	ctx := context.Background()

	c.Set(ctx, 1, []uint{2})
	c.Invalidate(ctx, 1)
	_, hit := c.Get(ctx, 1)
	assert.False(t, hit)
}
