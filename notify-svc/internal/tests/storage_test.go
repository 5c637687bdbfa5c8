package tests

import (
	"context"
	"testing"
	"time"

	"qrmenu/internal/events"
	"qrmenu/notify-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRelay(t *testing.T) (*storage.RedisRelay, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewRedisRelay(client, time.Minute, zap.NewNop()), server
}

func TestRedisRelay_Claim(t *testing.T) {
	relay, server := newRelay(t)
	ctx := context.Background()

	fresh, err := relay.Claim(ctx, "notify:10:ORD-1:order_created")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = relay.Claim(ctx, "notify:10:ORD-1:order_created")
	require.NoError(t, err)
	assert.False(t, fresh)

	server.FastForward(2 * time.Minute)
	fresh, err = relay.Claim(ctx, "notify:10:ORD-1:order_created")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestRedisRelay_ReleaseAllowsReclaim(t *testing.T) {
	relay, server := newRelay(t)
	ctx := context.Background()
	key := "notify:10:ORD-1:order_created"

	fresh, err := relay.Claim(ctx, key)
	require.NoError(t, err)
	require.True(t, fresh)

	require.NoError(t, relay.Release(ctx, key))
	assert.False(t, server.Exists(key))

	fresh, err = relay.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestRedisRelay_PublishReachesSubscriber(t *testing.T) {
	relay, server := newRelay(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, closeFn, err := relay.Subscribe(ctx, 10)
	require.NoError(t, err)
	defer closeFn()

	server.Publish(events.RestaurantChannel(10), "garbage")
	e := orderEvent(events.TypeOrderCreated, "pending", 0)
	require.NoError(t, relay.Publish(ctx, e))
	other := e
	other.RestaurantID = 11
	require.NoError(t, relay.Publish(ctx, other))

	got := collect(t, stream, 1)
	assert.Equal(t, e.OrderNumber, got[0].OrderNumber)
	assert.Equal(t, 10, got[0].RestaurantID)
}
