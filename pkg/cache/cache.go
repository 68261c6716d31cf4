// Package cache is a small JSON-over-Redis read cache. It is used for the
// public availability view only; the allocator never reads from it, it
// always recomputes capacity inside its transaction.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityKey is the cache key for an event's availability view.
func AvailabilityKey(eventID int64) string {
	return fmt.Sprintf("availability:%d", eventID)
}

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a cache, or nil if rdb is nil or the TTL is not positive.
// A nil *Cache is safe to use and behaves as a permanent miss.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get unmarshals the cached value into out, reporting whether it was a hit.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

// Set stores val under key for the cache TTL. Errors are swallowed: a
// broken cache only costs recomputation.
func (c *Cache) Set(ctx context.Context, key string, val any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Delete drops a key, if present.
func (c *Cache) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, key).Err()
}
