package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/auth"
	"qrmenu/internal/httpx"
	"qrmenu/notify-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const DefaultHeartbeat = 15 * time.Second

type Handler struct {
	Streams   service.StreamWatcher
	Tokens    *auth.TokenManager
	Logger    *zap.Logger
	Heartbeat time.Duration
	// Base ends every open stream when cancelled.
	Base context.Context
}

func NewHandler(base context.Context, streams service.StreamWatcher, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{Streams: streams, Tokens: tokens, Logger: logger, Heartbeat: DefaultHeartbeat, Base: base}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", httpx.Health("notify-svc")).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId:[0-9]+}/orders/stream", h.Tokens.RequireFunc(h.streamOrders)).Methods("GET")
}

// streamOrders is a Server-Sent-Events feed of the restaurant's order and
// review notifications. Each event is named after its type and carries the JSON event.
func (h *Handler) streamOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := httpx.PathInt(r, "restaurantId")
	if err == nil {
		err = auth.Authorize(r.Context(), restaurantID)
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.Error(w, apperr.Storage(fmt.Errorf("response writer cannot flush"), "streaming unsupported"))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	if h.Base != nil {
		stop := context.AfterFunc(h.Base, cancel)
		defer stop()
	}

	notifications, err := h.Streams.Watch(ctx, restaurantID)
	if err != nil {
		httpx.Error(w, apperr.Storage(err, "subscribe to notifications"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()
	h.Logger.Info("notification stream opened", zap.Int("restaurant_id", restaurantID))

	heartbeat := time.NewTicker(h.Heartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			h.Logger.Info("notification stream closed", zap.Int("restaurant_id", restaurantID))
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case e, ok := <-notifications:
			if !ok {
				return
			}
			payload, err := json.Marshal(e)
			if err != nil {
				h.Logger.Warn("failed to encode notification", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, payload)
			flusher.Flush()
		}
	}
}
