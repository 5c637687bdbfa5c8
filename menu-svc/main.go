package main

import (
	"context"
	"time"

	"qrmenu/config"
	"qrmenu/internal/auth"
	"qrmenu/internal/httpx"
	httpapi "qrmenu/menu-svc/internal/api/http"
	"qrmenu/menu-svc/internal/service"
	"qrmenu/menu-svc/internal/storage"
	"qrmenu/migrations"

	"go.uber.org/zap"
)

const publicMenuTTL = 10 * time.Minute

func main() {
	cfg, logger := config.MustLoad("menu-svc")
	defer logger.Sync()

	db := config.MustInitPostgres(cfg.Database, logger)
	defer db.Close()
	if err := migrations.Apply(context.Background(), db); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	redisClient := config.MustInitRedis(cfg.Redis, logger)
	defer redisClient.Close()

	repo := storage.NewPostgresRepository(db)
	cache := storage.NewRedisCache(redisClient, publicMenuTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTTL)
	qr := service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}

	handler := httpapi.NewHandler(
		service.NewAuthService(repo, tokens, qr, logger),
		service.NewRestaurantService(repo, cache, qr, logger),
		service.NewMenuService(repo, repo, cache, logger, cfg.SandboxMode),
		service.NewLocalUploader(cfg.UploadDir),
		tokens,
		cfg.UploadDir,
	)

	httpx.Run(cfg.HTTPAddr, httpapi.NewRouter(handler, logger), logger)
}
