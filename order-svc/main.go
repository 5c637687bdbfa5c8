package main

import (
	"context"
	"time"

	"qrmenu/config"
	"qrmenu/internal/auth"
	"qrmenu/internal/cart"
	"qrmenu/internal/events"
	"qrmenu/internal/httpx"
	"qrmenu/migrations"
	httpapi "qrmenu/order-svc/internal/api/http"
	"qrmenu/order-svc/internal/service"
	"qrmenu/order-svc/internal/storage"

	"go.uber.org/zap"
)

const cartTTL = 24 * time.Hour

func main() {
	cfg, logger := config.MustLoad("order-svc")
	defer logger.Sync()

	db := config.MustInitPostgres(cfg.Database, logger)
	defer db.Close()
	if err := migrations.Apply(context.Background(), db); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	redisClient := config.MustInitRedis(cfg.Redis, logger)
	defer redisClient.Close()
	writer := config.NewKafkaWriter(cfg.Kafka, events.TopicOrders)

	catalog := storage.NewCatalogReader(db)
	orders := service.NewOrderService(
		storage.NewPostgresRepository(db),
		catalog,
		storage.NewKafkaPublisher(writer),
		logger,
		cfg.TaxRate,
		cfg.SandboxMode,
	)
	carts := service.NewCartService(
		cart.NewStore(cart.NewRedisPersister(redisClient, cartTTL), logger),
		orders,
		catalog,
		cfg.TaxRate,
		cfg.SandboxMode,
		logger,
	)
	handler := httpapi.NewHandler(orders, carts, auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTTL))

	logger.Info("order service configured", zap.Float64("tax_rate", cfg.TaxRate), zap.Bool("sandbox", cfg.SandboxMode))
	httpx.Run(cfg.HTTPAddr, httpapi.NewRouter(handler, logger), logger, func() {
		if err := writer.Close(); err != nil {
			logger.Warn("failed to close kafka writer", zap.Error(err))
		}
	})
}
