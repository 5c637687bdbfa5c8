package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"qrmenu/internal/apperr"
	"qrmenu/internal/auth"
	httpapi "qrmenu/rate-svc/internal/api/http"
	"qrmenu/rate-svc/internal/domain"
	"qrmenu/rate-svc/internal/mocks"
	"qrmenu/rate-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var tokens = auth.NewTokenManager("test-secret", 0)

func setupTestRouter(svc *mocks.ReviewServiceInterface) *mux.Router {
	router := mux.NewRouter()
	httpapi.NewHandler(svc, tokens).RegisterRoutes(router)
	return router
}

func TestHandler_createReview(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		prepareMocks func(svc *mocks.ReviewServiceInterface)
		expectedCode int
		expectedBody string
	}{
		{
			name:    "success",
			payload: `{"restaurantId":10,"customerName":"Ana","rating":5,"comment":"Great"}`,
			prepareMocks: func(svc *mocks.ReviewServiceInterface) {
				svc.On("Create", mock.Anything, domain.CreateInput{RestaurantID: 10, CustomerName: "Ana", Rating: 5, Comment: "Great"}).
					Return(&domain.Review{ID: 1, RestaurantID: 10, Rating: 5, Status: domain.StatusApproved}, nil).Once()
			},
			expectedCode: http.StatusCreated,
			expectedBody: `"status":"approved"`,
		},
		{
			name:         "invalid_json",
			payload:      `{"rating":`,
			prepareMocks: func(*mocks.ReviewServiceInterface) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "duplicate",
			payload: `{"restaurantId":10,"customerName":"Ana","rating":5,"comment":"Great"}`,
			prepareMocks: func(svc *mocks.ReviewServiceInterface) {
				svc.On("Create", mock.Anything, mock.Anything).
					Return(nil, apperr.Conflict("this review was already submitted")).Once()
			},
			expectedCode: http.StatusConflict,
			expectedBody: "already submitted",
		},
		{
			name:    "unknown_restaurant",
			payload: `{"restaurantId":99,"customerName":"Ana","rating":5,"comment":"Great"}`,
			prepareMocks: func(svc *mocks.ReviewServiceInterface) {
				svc.On("Create", mock.Anything, mock.Anything).
					Return(nil, apperr.NotFound("restaurant 99 not found")).Once()
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockSvc := mocks.NewReviewServiceInterface(t)
			testCase.prepareMocks(mockSvc)
			router := setupTestRouter(mockSvc)

			req := httptest.NewRequest("POST", "/api/reviews/create", bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_listReviews(t *testing.T) {
	mockSvc := mocks.NewReviewServiceInterface(t)
	router := setupTestRouter(mockSvc)

	mockSvc.On("List", mock.Anything, 10, 5).Return(&domain.ReviewList{
		Reviews: []domain.Review{{ID: 2, Rating: 3}, {ID: 1, Rating: 5}},
		Stats:   service.Summarize(map[int]int{3: 1, 5: 1}),
	}, nil).Once()

	req := httptest.NewRequest("GET", "/api/reviews/restaurant/10?limit=5", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var list domain.ReviewList
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&list))
	assert.Len(t, list.Reviews, 2)
	assert.Equal(t, 4.0, list.Stats.AverageRating)
	assert.Equal(t, 1, list.Stats.RatingBreakdown["3"])

	req = httptest.NewRequest("GET", "/api/reviews/restaurant/10?limit=many", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_deleteReview(t *testing.T) {
	token, err := tokens.Issue(10, "owner@example.com")
	require.NoError(t, err)

	tests := []struct {
		name         string
		token        string
		prepareMocks func(svc *mocks.ReviewServiceInterface)
		expectedCode int
	}{
		{
			name:         "requires_token",
			prepareMocks: func(*mocks.ReviewServiceInterface) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:  "deleted",
			token: token,
			prepareMocks: func(svc *mocks.ReviewServiceInterface) {
				svc.On("Delete", mock.Anything, 10, 7).Return(nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "missing",
			token: token,
			prepareMocks: func(svc *mocks.ReviewServiceInterface) {
				svc.On("Delete", mock.Anything, 10, 7).Return(apperr.NotFound("review 7 not found")).Once()
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockSvc := mocks.NewReviewServiceInterface(t)
			testCase.prepareMocks(mockSvc)
			router := setupTestRouter(mockSvc)

			req := httptest.NewRequest("DELETE", "/api/reviews/7", nil)
			if testCase.token != "" {
				req.Header.Set("Authorization", "Bearer "+testCase.token)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
		})
	}
}
