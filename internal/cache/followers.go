package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FollowingCache is a read-through cache of each user's following-id set.
// The follow graph is read on every feed and story assembly, so a short TTL
// plus invalidation on follow/unfollow keeps the hot path off the store.
//
// A nil cache (or one built without a client) is a valid no-op: every Get
// misses and writes are discarded.
type FollowingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFollowingCache(client *redis.Client, ttl time.Duration) *FollowingCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &FollowingCache{client: client, ttl: ttl}
}

func key(userID uint) string {
	return fmt.Sprintf("following:%d", userID)
}

// Get returns the cached following ids and whether the lookup hit.
func (c *FollowingCache) Get(ctx context.Context, userID uint) ([]uint, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// Set stores the following ids. Failures are ignored; the store remains
// authoritative.
func (c *FollowingCache) Set(ctx context.Context, userID uint, ids []uint) {
	if c == nil || c.client == nil {
		return
	}
	if ids == nil {
		ids = []uint{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key(userID), payload, c.ttl).Err()
}

// Invalidate drops the cached set after a follow or unfollow.
func (c *FollowingCache) Invalidate(ctx context.Context, userID uint) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, key(userID)).Err()
}
