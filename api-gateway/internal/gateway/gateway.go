package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"qrmenu/config"
	"qrmenu/internal/apperr"
	"qrmenu/internal/httpx"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response headers owned by the gateway itself. CORS is applied once at the
// edge, so upstream CORS headers are dropped to avoid duplicates.
var skipResponseHeaders = map[string]bool{
	"Connection":                       true,
	"Keep-Alive":                       true,
	"Transfer-Encoding":                true,
	"Upgrade":                          true,
	"Access-Control-Allow-Origin":      true,
	"Access-Control-Allow-Credentials": true,
	"Access-Control-Expose-Headers":    true,
	"Vary":                             true,
}

type Gateway struct {
	upstreams config.UpstreamConfig
	client    HTTPClient
	logger    *zap.Logger
	base      context.Context
}

// NewGateway builds a gateway whose proxied requests are cancelled when base
// is done, which lets shutdown end long-lived order streams.
func NewGateway(base context.Context, upstreams config.UpstreamConfig, client HTTPClient, logger *zap.Logger) *Gateway {
	return &Gateway{
		upstreams: upstreams,
		client:    client,
		logger:    logger,
		base:      base,
	}
}

// Target returns the base URL of the service that owns path.
func (g *Gateway) Target(path string) (string, bool) {
	switch {
	case isOrderStream(path):
		return g.upstreams.NotifySvcURL, true
	case hasPrefix(path, "/api/auth"), hasPrefix(path, "/api/restaurants"), hasPrefix(path, "/api/menu"),
		hasPrefix(path, "/api/upload"), hasPrefix(path, "/uploads"):
		return g.upstreams.MenuSvcURL, true
	case hasPrefix(path, "/api/orders"), hasPrefix(path, "/api/carts"):
		return g.upstreams.OrderSvcURL, true
	case hasPrefix(path, "/api/reviews"):
		return g.upstreams.RateSvcURL, true
	}
	return "", false
}

// hasPrefix matches whole path segments, so /api/menus does not match /api/menu.
func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isOrderStream(path string) bool {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return len(parts) == 5 && parts[0] == "api" && parts[1] == "restaurants" &&
		parts[3] == "orders" && parts[4] == "stream"
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(g.base, cancel)
	defer stop()

	req, err := http.NewRequestWithContext(ctx, r.Method, url, r.Body)
	if err != nil {
		g.logger.Error("failed to build upstream request", zap.String("url", url), zap.Error(err))
		httpx.Error(w, apperr.Storage(err, "build upstream request"))
		return
	}
	req.Header = r.Header.Clone()
	req.ContentLength = r.ContentLength

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("upstream unavailable", zap.String("target", targetURL), zap.String("path", r.URL.Path), zap.Error(err))
		httpx.JSON(w, http.StatusBadGateway, map[string]string{"error": "upstream service unavailable"})
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		if skipResponseHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if err := copyFlushing(w, resp.Body); err != nil && !errors.Is(err, context.Canceled) {
		g.logger.Warn("failed to copy upstream response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// copyFlushing forwards body chunk by chunk, flushing after each write so
// event streams reach the client as they are produced.
func copyFlushing(w http.ResponseWriter, body io.Reader) error {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := g.Target(r.URL.Path)
	if !ok {
		g.logger.Debug("unmatched route", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		httpx.Error(w, apperr.NotFound("route %s not found", r.URL.Path))
		return
	}
	g.ProxyRequest(w, r, target)
}

func (g *Gateway) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", httpx.Health("api-gateway")).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/uploads/").HandlerFunc(g.RouteHandler)
	r.NotFoundHandler = http.HandlerFunc(g.RouteHandler)
	return r
}
