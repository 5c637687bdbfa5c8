package httpx

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Run serves handler on addr until SIGINT or SIGTERM, then drains in-flight
// requests. onShutdown hooks run after the server stops accepting requests.
func Run(addr string, handler http.Handler, logger *zap.Logger, onShutdown ...func()) {
	serve(addr, handler, logger, nil, onShutdown)
}

// RunStreaming is Run for servers holding long-lived responses: stopStreams is
// called as soon as shutdown begins so those handlers can return.
func RunStreaming(addr string, handler http.Handler, logger *zap.Logger, stopStreams func(), onShutdown ...func()) {
	serve(addr, handler, logger, stopStreams, onShutdown)
}

func serve(addr string, handler http.Handler, logger *zap.Logger, stopStreams func(), onShutdown []func()) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if stopStreams != nil {
		srv.RegisterOnShutdown(stopStreams)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	for _, fn := range onShutdown {
		fn()
	}
}
