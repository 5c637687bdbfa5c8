package main

import (
	"context"
	"time"

	"qrmenu/config"
	"qrmenu/internal/auth"
	"qrmenu/internal/events"
	"qrmenu/internal/httpx"
	"qrmenu/migrations"
	httpapi "qrmenu/rate-svc/internal/api/http"
	"qrmenu/rate-svc/internal/service"
	"qrmenu/rate-svc/internal/storage"

	"go.uber.org/zap"
)

const reviewMarkerTTL = 10 * time.Minute

func main() {
	cfg, logger := config.MustLoad("rate-svc")
	defer logger.Sync()

	db := config.MustInitPostgres(cfg.Database, logger)
	defer db.Close()
	if err := migrations.Apply(context.Background(), db); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	redisClient := config.MustInitRedis(cfg.Redis, logger)
	defer redisClient.Close()
	writer := config.NewKafkaWriter(cfg.Kafka, events.TopicReviews)

	reviews := service.NewReviewService(
		storage.NewPostgresRepository(db),
		storage.NewRedisCache(redisClient, reviewMarkerTTL),
		storage.NewKafkaPublisher(writer),
		logger,
	)
	handler := httpapi.NewHandler(reviews, auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTTL))

	httpx.Run(cfg.HTTPAddr, httpapi.NewRouter(handler, logger), logger, func() {
		if err := writer.Close(); err != nil {
			logger.Warn("failed to close kafka writer", zap.Error(err))
		}
	})
}
