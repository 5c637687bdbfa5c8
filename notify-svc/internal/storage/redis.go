package storage

import (
	"context"
	"encoding/json"
	"time"

	"qrmenu/internal/events"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRelay deduplicates with SETNX markers and fans out over pub/sub.
type RedisRelay struct {
	Client   *redis.Client
	DedupTTL time.Duration
	Logger   *zap.Logger
}

func NewRedisRelay(client *redis.Client, dedupTTL time.Duration, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{Client: client, DedupTTL: dedupTTL, Logger: logger}
}

func (r *RedisRelay) Claim(ctx context.Context, key string) (bool, error) {
	return r.Client.SetNX(ctx, key, "1", r.DedupTTL).Result()
}

func (r *RedisRelay) Release(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}

func (r *RedisRelay) Publish(ctx context.Context, e events.Notification) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.Client.Publish(ctx, events.RestaurantChannel(e.RestaurantID), payload).Err()
}

func (r *RedisRelay) Subscribe(ctx context.Context, restaurantID int) (<-chan events.Notification, func() error, error) {
	sub := r.Client.Subscribe(ctx, events.RestaurantChannel(restaurantID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, err
	}

	out := make(chan events.Notification)
	messages := sub.Channel()
	go func() {
		defer close(out)
		for msg := range messages {
			var e events.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				r.Logger.Warn("dropping malformed notification", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, sub.Close, nil
}
