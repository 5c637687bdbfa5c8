package main

import (
	"context"
	"time"

	"qrmenu/config"
	"qrmenu/internal/auth"
	"qrmenu/internal/events"
	"qrmenu/internal/httpx"
	httpapi "qrmenu/notify-svc/internal/api/http"
	"qrmenu/notify-svc/internal/service"
	"qrmenu/notify-svc/internal/storage"

	"go.uber.org/zap"
)

const (
	consumerGroup   = "notify-svc"
	freshnessWindow = 10 * time.Second
	dedupTTL        = 10 * time.Minute
)

func main() {
	cfg, logger := config.MustLoadFor("notify-svc", config.RequireSecret)
	defer logger.Sync()

	redisClient := config.MustInitRedis(cfg.Redis, logger)
	defer redisClient.Close()
	reader := config.NewKafkaGroupReader(cfg.Kafka, consumerGroup, events.TopicOrders, events.TopicReviews)

	relay := storage.NewRedisRelay(redisClient, dedupTTL, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := service.NewConsumer(reader, relay, logger, freshnessWindow)
	go consumer.Start(ctx)

	handler := httpapi.NewHandler(
		ctx,
		service.NewStreamer(relay, freshnessWindow, logger),
		auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTTL),
		logger,
	)

	httpx.RunStreaming(cfg.HTTPAddr, httpapi.NewRouter(handler, logger), logger, cancel, func() {
		if err := reader.Close(); err != nil {
			logger.Warn("failed to close kafka reader", zap.Error(err))
		}
	})
}
