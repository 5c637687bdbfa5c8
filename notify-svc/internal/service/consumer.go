package service

import (
	"context"
	"encoding/json"
	"time"

	"qrmenu/internal/events"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const readRetryDelay = time.Second

type Outcome string

const (
	OutcomeRelayed   Outcome = "relayed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeStale     Outcome = "stale"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
)

// Consumer moves order and review events from Kafka onto the per-restaurant
// relay channels, dropping stale and already relayed ones.
type Consumer struct {
	Reader MessageReader
	Relay  Relay
	Logger *zap.Logger
	Window time.Duration
	now    func() time.Time
}

func NewConsumer(reader MessageReader, relay Relay, logger *zap.Logger, window time.Duration) *Consumer {
	return &Consumer{
		Reader: reader,
		Relay:  relay,
		Logger: logger,
		Window: window,
		now:    time.Now,
	}
}

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.Logger.Info("starting notification consumer", zap.Duration("window", c.Window))
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.Logger.Info("notification consumer stopped")
				return
			}
			c.Logger.Warn("error reading message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}

		n, err := decode(message)
		if err != nil {
			c.Logger.Warn("error unmarshaling message",
				zap.String("topic", message.Topic), zap.Int64("offset", message.Offset), zap.Error(err))
			continue
		}
		c.Process(ctx, n)
	}
}

// decode reads a message by the topic it arrived on. Messages without a
// topic are order events.
func decode(message kafka.Message) (events.Notification, error) {
	if message.Topic == events.TopicReviews {
		var e events.ReviewEvent
		if err := json.Unmarshal(message.Value, &e); err != nil {
			return events.Notification{}, err
		}
		return e.Notification(), nil
	}
	var e events.OrderEvent
	if err := json.Unmarshal(message.Value, &e); err != nil {
		return events.Notification{}, err
	}
	return e.Notification(), nil
}

func (c *Consumer) Process(ctx context.Context, e events.Notification) Outcome {
	if !e.Notifies() {
		return OutcomeIgnored
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	if e.Stale(now(), c.Window) {
		c.Logger.Debug("dropping stale event",
			zap.String("type", e.Type), zap.String("key", e.DedupKey()), zap.Time("occurred_at", e.OccurredAt))
		return OutcomeStale
	}

	key := e.DedupKey()
	fresh, err := c.Relay.Claim(ctx, key)
	claimed := err == nil && fresh
	if err != nil {
		c.Logger.Warn("dedup marker unavailable, relaying anyway", zap.String("key", key), zap.Error(err))
	} else if !fresh {
		return OutcomeDuplicate
	}

	if err := c.Relay.Publish(ctx, e); err != nil {
		c.Logger.Error("failed to relay notification",
			zap.Int("restaurant_id", e.RestaurantID), zap.String("key", key), zap.Error(err))
		if claimed {
			if err := c.Relay.Release(ctx, key); err != nil {
				c.Logger.Warn("failed to release dedup marker", zap.String("key", key), zap.Error(err))
			}
		}
		return OutcomeFailed
	}
	c.Logger.Info("notification relayed",
		zap.Int("restaurant_id", e.RestaurantID), zap.String("key", key), zap.String("type", e.Type))
	return OutcomeRelayed
}
