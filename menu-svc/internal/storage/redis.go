package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"qrmenu/menu-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) PublicMenuKey(restaurantID int) string {
	return "menu:public:" + strconv.Itoa(restaurantID)
}

func (c *RedisCache) GetPublicMenu(ctx context.Context, restaurantID int) (*domain.PublicMenu, bool, error) {
	data, err := c.Client.Get(ctx, c.PublicMenuKey(restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var pm domain.PublicMenu
	if err := json.Unmarshal(data, &pm); err != nil {
		return nil, false, err
	}
	return &pm, true, nil
}

func (c *RedisCache) SetPublicMenu(ctx context.Context, restaurantID int, pm *domain.PublicMenu) error {
	data, err := json.Marshal(pm)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.PublicMenuKey(restaurantID), data, c.TTL).Err()
}

func (c *RedisCache) InvalidatePublicMenu(ctx context.Context, restaurantID int) error {
	return c.Client.Del(ctx, c.PublicMenuKey(restaurantID)).Err()
}
