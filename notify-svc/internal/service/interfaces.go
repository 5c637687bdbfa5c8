package service

import (
	"context"

	"qrmenu/internal/events"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Relay fans accepted notifications out to every notify-svc instance.
type Relay interface {
	// Claim reports false when the notification was already relayed.
	Claim(ctx context.Context, key string) (bool, error)
	// Release drops a claim so a redelivered notification is relayed again.
	Release(ctx context.Context, key string) error
	Publish(ctx context.Context, e events.Notification) error
	// Subscribe streams a restaurant's notifications until closeFn is called.
	Subscribe(ctx context.Context, restaurantID int) (stream <-chan events.Notification, closeFn func() error, err error)
}

type StreamWatcher interface {
	Watch(ctx context.Context, restaurantID int) (<-chan events.Notification, error)
}

var _ StreamWatcher = (*Streamer)(nil)
