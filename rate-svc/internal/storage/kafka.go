package storage

import (
	"context"
	"encoding/json"

	"qrmenu/internal/events"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishReview(ctx context.Context, e events.ReviewEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:     e.Key(),
		Value:   payload,
		Time:    e.Timestamp,
		Headers: []kafka.Header{{Key: "type", Value: []byte(e.Type)}},
	})
}
