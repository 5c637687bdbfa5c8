package tests

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"qrmenu/internal/auth"
	"qrmenu/internal/events"
	httpapi "qrmenu/notify-svc/internal/api/http"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWatcher struct {
	stream chan events.Notification
	err    error
}

func (f *fakeWatcher) Watch(ctx context.Context, restaurantID int) (<-chan events.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

var tokens = auth.NewTokenManager("test-secret", 0)

func newStreamServer(t *testing.T, watcher *fakeWatcher) *httptest.Server {
	handler := httpapi.NewHandler(context.Background(), watcher, tokens, zap.NewNop())
	handler.Heartbeat = 20 * time.Millisecond
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func streamRequest(t *testing.T, ctx context.Context, url string, restaurantID int) *http.Request {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	if restaurantID > 0 {
		token, err := tokens.Issue(restaurantID, "staff@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestStreamOrders_Access(t *testing.T) {
	tests := []struct {
		name     string
		tenant   int
		watchErr error
		wantCode int
	}{
		{name: "no token", wantCode: http.StatusUnauthorized},
		{name: "other tenant", tenant: 11, wantCode: http.StatusForbidden},
		{name: "relay unavailable", tenant: 10, watchErr: errors.New("redis down"), wantCode: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			server := newStreamServer(t, &fakeWatcher{err: testCase.watchErr})
			req := streamRequest(t, context.Background(), server.URL+"/api/restaurants/10/orders/stream", testCase.tenant)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, testCase.wantCode, resp.StatusCode)
		})
	}
}

func TestStreamOrders_WritesEventsAndHeartbeats(t *testing.T) {
	watcher := &fakeWatcher{stream: make(chan events.Notification, 1)}
	server := newStreamServer(t, watcher)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp, err := http.DefaultClient.Do(streamRequest(t, ctx, server.URL+"/api/restaurants/10/orders/stream", 10))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	watcher.stream <- orderEvent(events.TypeOrderCreated, "pending", 0)

	var sawEvent, sawHeartbeat bool
	var data string
	scanner := bufio.NewScanner(resp.Body)
	for !(sawEvent && sawHeartbeat && data != "") && scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "event: order_created":
			sawEvent = true
		case strings.HasPrefix(line, "data: ") && sawEvent:
			data = strings.TrimPrefix(line, "data: ")
		case line == ": heartbeat":
			sawHeartbeat = true
		}
	}
	require.True(t, sawEvent)
	assert.True(t, sawHeartbeat)

	var e events.Notification
	require.NoError(t, json.Unmarshal([]byte(data), &e))
	assert.Equal(t, "ORD-1-005", e.OrderNumber)
}

func TestStreamOrders_WritesReviewEvents(t *testing.T) {
	watcher := &fakeWatcher{stream: make(chan events.Notification, 1)}
	server := newStreamServer(t, watcher)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp, err := http.DefaultClient.Do(streamRequest(t, ctx, server.URL+"/api/restaurants/10/orders/stream", 10))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	watcher.stream <- reviewEvent(0).Notification()

	var data string
	scanner := bufio.NewScanner(resp.Body)
	sawEvent := false
	for data == "" && scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "event: new_review":
			sawEvent = true
		case strings.HasPrefix(line, "data: ") && sawEvent:
			data = strings.TrimPrefix(line, "data: ")
		}
	}
	require.True(t, sawEvent)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &body))
	assert.Equal(t, float64(3), body["reviewId"])
	assert.Equal(t, float64(5), body["rating"])
	assert.NotContains(t, body, "orderNumber")
}
