package main

import (
	"context"
	"net/http"

	"qrmenu/api-gateway/internal/gateway"
	"qrmenu/config"
	"qrmenu/internal/httpx"

	"go.uber.org/zap"
)

func main() {
	cfg, logger := config.MustLoadFor("api-gateway", 0)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// No client timeout: order streams stay open until the caller or shutdown ends them.
	gw := gateway.NewGateway(ctx, cfg.Upstreams, &http.Client{}, logger)

	r := gw.SetupRoutes()
	r.Use(httpx.AccessLog(logger))

	logger.Info("routing upstreams",
		zap.String("menu", cfg.Upstreams.MenuSvcURL),
		zap.String("order", cfg.Upstreams.OrderSvcURL),
		zap.String("rate", cfg.Upstreams.RateSvcURL),
		zap.String("notify", cfg.Upstreams.NotifySvcURL),
	)
	httpx.RunStreaming(cfg.HTTPAddr, httpx.CORS(r), logger, cancel)
}
