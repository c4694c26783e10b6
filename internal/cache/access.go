package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AccessCache memoizes the post read-access predicate per
// (viewer, creator) pair. A nil client disables caching entirely: every
// lookup misses and every invalidation is a no-op, so callers never
// need to branch on whether Redis is configured.
type AccessCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and pings it with a short timeout.
// Returns nil on failure so the service degrades to uncached reads.
func NewRedisClient(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

func NewAccessCache(client *redis.Client, ttl time.Duration) *AccessCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AccessCache{client: client, ttl: ttl}
}

func key(viewerID, creatorID uuid.UUID) string {
	return "access:" + viewerID.String() + ":" + creatorID.String()
}

// Get returns the cached predicate value and whether it was present.
func (c *AccessCache) Get(ctx context.Context, viewerID, creatorID uuid.UUID) (bool, bool) {
	if c == nil || c.client == nil {
		return false, false
	}
	val, err := c.client.Get(ctx, key(viewerID, creatorID)).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

func (c *AccessCache) Set(ctx context.Context, viewerID, creatorID uuid.UUID, allowed bool) {
	if c == nil || c.client == nil {
		return
	}
	val := "0"
	if allowed {
		val = "1"
	}
	c.client.Set(ctx, key(viewerID, creatorID), val, c.ttl)
}

// Invalidate drops the cached value for one (viewer, creator) pair.
func (c *AccessCache) Invalidate(ctx context.Context, viewerID, creatorID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key(viewerID, creatorID))
}

// InvalidateCreator drops every cached value scoped to a creator, used
// when its visibility flag changes or it is deleted.
func (c *AccessCache) InvalidateCreator(ctx context.Context, creatorID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, "access:*:"+creatorID.String(), 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
