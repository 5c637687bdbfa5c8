package tests

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"qrmenu/api-gateway/internal/gateway"
	"qrmenu/api-gateway/internal/mocks"
	"qrmenu/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var upstreams = config.UpstreamConfig{
	MenuSvcURL:   "http://menu-svc",
	OrderSvcURL:  "http://order-svc",
	RateSvcURL:   "http://rate-svc",
	NotifySvcURL: "http://notify-svc",
}

func newGateway(client gateway.HTTPClient) *gateway.Gateway {
	return gateway.NewGateway(context.Background(), upstreams, client, zap.NewNop())
}

func jsonResponse(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	router := newGateway(nil).SetupRoutes()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_Target(t *testing.T) {
	tests := []struct {
		path   string
		target string
	}{
		{path: "/api/auth/login", target: upstreams.MenuSvcURL},
		{path: "/api/restaurants/3", target: upstreams.MenuSvcURL},
		{path: "/api/restaurants/3/qrcode", target: upstreams.MenuSvcURL},
		{path: "/api/menu/public/3", target: upstreams.MenuSvcURL},
		{path: "/api/upload", target: upstreams.MenuSvcURL},
		{path: "/uploads/logo.png", target: upstreams.MenuSvcURL},
		{path: "/api/orders/create", target: upstreams.OrderSvcURL},
		{path: "/api/orders/track/ORD-3-001", target: upstreams.OrderSvcURL},
		{path: "/api/carts/session-1/checkout", target: upstreams.OrderSvcURL},
		{path: "/api/reviews/restaurant/3", target: upstreams.RateSvcURL},
		{path: "/api/restaurants/3/orders/stream", target: upstreams.NotifySvcURL},
		{path: "/api/restaurants/3/orders", target: upstreams.MenuSvcURL},
		{path: "/api/menus", target: ""},
		{path: "/api/analytics/top-today", target: ""},
	}

	gw := newGateway(nil)
	for _, testCase := range tests {
		t.Run(testCase.path, func(t *testing.T) {
			target, ok := gw.Target(testCase.path)
			assert.Equal(t, testCase.target != "", ok)
			assert.Equal(t, testCase.target, target)
		})
	}
}

func TestGateway_RouteHandler_ForwardsRequest(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := newGateway(mockClient)

	upstream := jsonResponse(http.StatusCreated, `{"message":"Order created successfully"}`)
	upstream.Header.Set("Access-Control-Allow-Origin", "*")
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body, _ := io.ReadAll(req.Body)
		return req.Method == http.MethodPost &&
			req.URL.String() == "http://order-svc/api/orders/create?source=qr" &&
			req.Header.Get("Authorization") == "Bearer abc" &&
			string(body) == `{"restaurantId":3}`
	})).Return(upstream, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/orders/create?source=qr", strings.NewReader(`{"restaurantId":3}`))
	req.Header.Set("Authorization", "Bearer abc")
	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Body.String(), "Order created successfully")
}

func TestGateway_RouteHandler_UnknownAPI(t *testing.T) {
	router := newGateway(mocks.NewHTTPClient(t)).SetupRoutes()

	for _, path := range []string{"/api/unknown", "/api", "/index.html"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}

func TestGateway_RouteHandler_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := newGateway(mockClient)

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, httptest.NewRequest(http.MethodGet, "/api/reviews/restaurant/3", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "upstream service unavailable")
}

func TestGateway_StreamsOrderEvents(t *testing.T) {
	release := make(chan struct{})
	notify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/restaurants/3/orders/stream", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "event: order_created\ndata: {\"orderNumber\":\"ORD-3-001\"}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer notify.Close()
	defer close(release)

	base, cancel := context.WithCancel(context.Background())
	defer cancel()
	gw := gateway.NewGateway(base, config.UpstreamConfig{NotifySvcURL: notify.URL}, &http.Client{}, zap.NewNop())
	edge := httptest.NewServer(gw.SetupRoutes())
	defer edge.Close()

	resp, err := http.Get(edge.URL + "/api/restaurants/3/orders/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 4)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	select {
	case line := <-lines:
		assert.Equal(t, "event: order_created", line)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not flushed through the gateway")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-lines:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("stream stayed open after shutdown")
		}
	}
}
