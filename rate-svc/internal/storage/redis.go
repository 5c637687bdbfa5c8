package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

// ReviewMarkerKey identifies a review by restaurant, author and comment text.
// Author and comment are case-folded and hashed to keep the key short.
func (c *RedisCache) ReviewMarkerKey(restaurantID int, author, comment string) string {
	sum := sha1.Sum([]byte(strings.ToLower(author) + "\x00" + strings.ToLower(comment)))
	return "review:" + strconv.Itoa(restaurantID) + ":" + hex.EncodeToString(sum[:])
}

// SetMarker reports false when the marker already existed.
func (c *RedisCache) SetMarker(ctx context.Context, key string) (bool, error) {
	return c.Client.SetNX(ctx, key, "1", c.TTL).Result()
}

func (c *RedisCache) ClearMarker(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}
