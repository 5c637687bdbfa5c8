package service

import (
	"context"
	"time"

	"qrmenu/internal/events"

	"go.uber.org/zap"
)

// Streamer hands each dashboard connection its own filtered view of a
// restaurant's relay channel.
type Streamer struct {
	relay  Relay
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewStreamer(relay Relay, window time.Duration, logger *zap.Logger) *Streamer {
	return &Streamer{relay: relay, window: window, logger: logger, now: time.Now}
}

// seenSet remembers delivered notifications. Entries older than the window
// are forgotten: a repeat that old is dropped as stale anyway.
type seenSet struct {
	window time.Duration
	at     map[string]time.Time
}

func (s *seenSet) firstTime(e events.Notification, now time.Time) bool {
	key := e.DedupKey()
	if _, ok := s.at[key]; ok {
		return false
	}
	for k, occurred := range s.at {
		if now.Sub(occurred) > s.window {
			delete(s.at, k)
		}
	}
	s.at[key] = e.OccurredAt
	return true
}

// Watch streams fresh, deduplicated notifications for restaurantID until ctx
// is cancelled.
func (s *Streamer) Watch(ctx context.Context, restaurantID int) (<-chan events.Notification, error) {
	in, closeFn, err := s.relay.Subscribe(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	out := make(chan events.Notification)
	go func() {
		defer close(out)
		defer func() {
			if err := closeFn(); err != nil {
				s.logger.Warn("failed to close subscription", zap.Int("restaurant_id", restaurantID), zap.Error(err))
			}
		}()

		seen := &seenSet{window: s.window, at: make(map[string]time.Time)}
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-in:
				if !ok {
					return
				}
				now := s.now()
				if e.RestaurantID != restaurantID || e.Stale(now, s.window) || !seen.firstTime(e, now) {
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
