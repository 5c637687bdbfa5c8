package httpapi

import (
	"net/http"

	"qrmenu/internal/httpx"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func NewRouter(handler *Handler, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(httpx.AccessLog(logger))
	handler.RegisterRoutes(r)
	return httpx.CORS(r)
}
