package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"qrmenu/internal/apperr"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestError_MapsKindAndHidesStorage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "not found", err: apperr.NotFound("order 3 not found"), status: http.StatusNotFound, message: "order 3 not found"},
		{name: "storage", err: apperr.Storage(errors.New("dial tcp"), "load order"), status: http.StatusInternalServerError, message: "internal server error"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Error(rr, testCase.err)

			assert.Equal(t, testCase.status, rr.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, testCase.message, body["error"])
		})
	}
}

func TestPathInt(t *testing.T) {
	r := mux.NewRouter()
	var got int
	var gotErr error
	r.HandleFunc("/things/{id}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = PathInt(req, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/12", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, 12, got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/abc", nil))
	assert.True(t, apperr.Is(gotErr, apperr.KindValidation))
}

func TestAccessLog_PassesStatusThrough(t *testing.T) {
	r := mux.NewRouter()
	r.Use(AccessLog(zap.NewNop()))
	r.HandleFunc("/health", Health("test-svc"))
	r.HandleFunc("/teapot", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "test-svc")
}
