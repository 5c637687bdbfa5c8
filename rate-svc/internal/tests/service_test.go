package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/events"
	"qrmenu/rate-svc/internal/domain"
	"qrmenu/rate-svc/internal/mocks"
	"qrmenu/rate-svc/internal/service"
	"qrmenu/rate-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validReview() domain.CreateInput {
	return domain.CreateInput{
		RestaurantID:  10,
		CustomerName:  " Ana ",
		CustomerEmail: "ana@example.com",
		Rating:        5,
		Comment:       "Great pasta",
	}
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		input        func() domain.CreateInput
		prepareMocks func(repository *mocks.ReviewRepository, cache *mocks.ReviewCache, publisher *mocks.ReviewPublisher)
		expectedKind apperr.Kind
	}{
		{
			name:  "success_create_new_review",
			input: validReview,
			prepareMocks: func(repository *mocks.ReviewRepository, cache *mocks.ReviewCache, publisher *mocks.ReviewPublisher) {
				repository.On("RestaurantExists", ctx, 10).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", 10, "ana@example.com", "Great pasta").Return("review:10:x").Once()
				cache.On("SetMarker", ctx, "review:10:x").Return(true, nil).Once()
				repository.On("InsertReview", ctx, mock.MatchedBy(func(r *domain.Review) bool {
					return r.CustomerName == "Ana" && r.Status == domain.StatusApproved
				})).Return(func(_ context.Context, r *domain.Review) error {
					r.ID = 7
					return nil
				}).Once()
				publisher.On("PublishReview", ctx, mock.MatchedBy(func(e events.ReviewEvent) bool {
					return e.Type == events.TypeNewReview && e.ReviewID == 7 && e.Rating == 5
				})).Return(nil).Once()
			},
		},
		{
			name: "author_falls_back_to_name",
			input: func() domain.CreateInput {
				in := validReview()
				in.CustomerEmail = ""
				return in
			},
			prepareMocks: func(repository *mocks.ReviewRepository, cache *mocks.ReviewCache, publisher *mocks.ReviewPublisher) {
				repository.On("RestaurantExists", ctx, 10).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", 10, "Ana", "Great pasta").Return("review:10:y").Once()
				cache.On("SetMarker", ctx, "review:10:y").Return(true, nil).Once()
				repository.On("InsertReview", ctx, mock.Anything).Return(nil).Once()
				publisher.On("PublishReview", ctx, mock.Anything).Return(errors.New("broker down")).Once()
			},
		},
		{
			name: "error_rating_out_of_range",
			input: func() domain.CreateInput {
				in := validReview()
				in.Rating = 6
				return in
			},
			prepareMocks: func(*mocks.ReviewRepository, *mocks.ReviewCache, *mocks.ReviewPublisher) {},
			expectedKind: apperr.KindValidation,
		},
		{
			name: "error_missing_comment",
			input: func() domain.CreateInput {
				in := validReview()
				in.Comment = "   "
				return in
			},
			prepareMocks: func(*mocks.ReviewRepository, *mocks.ReviewCache, *mocks.ReviewPublisher) {},
			expectedKind: apperr.KindValidation,
		},
		{
			name: "error_bad_email",
			input: func() domain.CreateInput {
				in := validReview()
				in.CustomerEmail = "not-an-email"
				return in
			},
			prepareMocks: func(*mocks.ReviewRepository, *mocks.ReviewCache, *mocks.ReviewPublisher) {},
			expectedKind: apperr.KindValidation,
		},
		{
			name:  "error_unknown_restaurant",
			input: validReview,
			prepareMocks: func(repository *mocks.ReviewRepository, cache *mocks.ReviewCache, publisher *mocks.ReviewPublisher) {
				repository.On("RestaurantExists", ctx, 10).Return(false, nil).Once()
			},
			expectedKind: apperr.KindNotFound,
		},
		{
			name:  "error_duplicate_review",
			input: validReview,
			prepareMocks: func(repository *mocks.ReviewRepository, cache *mocks.ReviewCache, publisher *mocks.ReviewPublisher) {
				repository.On("RestaurantExists", ctx, 10).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", 10, "ana@example.com", "Great pasta").Return("review:10:x").Once()
				cache.On("SetMarker", ctx, "review:10:x").Return(false, nil).Once()
			},
			expectedKind: apperr.KindConflict,
		},
		{
			name:  "error_insert_releases_marker",
			input: validReview,
			prepareMocks: func(repository *mocks.ReviewRepository, cache *mocks.ReviewCache, publisher *mocks.ReviewPublisher) {
				repository.On("RestaurantExists", ctx, 10).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", 10, "ana@example.com", "Great pasta").Return("review:10:x").Once()
				cache.On("SetMarker", ctx, "review:10:x").Return(true, nil).Once()
				repository.On("InsertReview", ctx, mock.Anything).Return(apperr.Storage(errors.New("db down"), "insert review")).Once()
				cache.On("ClearMarker", ctx, "review:10:x").Return(nil).Once()
			},
			expectedKind: apperr.KindStorage,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repository := mocks.NewReviewRepository(t)
			cache := mocks.NewReviewCache(t)
			publisher := mocks.NewReviewPublisher(t)
			testCase.prepareMocks(repository, cache, publisher)
			svc := service.NewReviewService(repository, cache, publisher, zap.NewNop())

			review, err := svc.Create(ctx, testCase.input())
			if testCase.expectedKind != apperr.KindUnknown {
				assert.True(t, apperr.Is(err, testCase.expectedKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusApproved, review.Status)
		})
	}
}

func TestSummarize_RatingFiveAndThree(t *testing.T) {
	stats := service.Summarize(map[int]int{5: 1, 3: 1})

	assert.Equal(t, 2, stats.TotalReviews)
	assert.Equal(t, 4.0, stats.AverageRating)
	assert.Equal(t, map[string]int{"1": 0, "2": 0, "3": 1, "4": 0, "5": 1}, stats.RatingBreakdown)
}

func TestSummarize_RoundsToOneDecimal(t *testing.T) {
	stats := service.Summarize(map[int]int{5: 2, 4: 1})
	assert.Equal(t, 4.7, stats.AverageRating)

	empty := service.Summarize(nil)
	assert.Zero(t, empty.TotalReviews)
	assert.Zero(t, empty.AverageRating)
	assert.Len(t, empty.RatingBreakdown, 5)
}

func TestReviewService_List(t *testing.T) {
	ctx := context.Background()
	repository := mocks.NewReviewRepository(t)
	svc := service.NewReviewService(repository, mocks.NewReviewCache(t), nil, zap.NewNop())

	repository.On("ListReviews", ctx, 10, 20).Return(nil, nil).Once()
	repository.On("RatingDistribution", ctx, 10).Return(map[int]int{}, nil).Once()
	repository.On("ListReviews", ctx, 10, 100).Return([]domain.Review{{ID: 2}, {ID: 1}}, nil).Once()
	repository.On("RatingDistribution", ctx, 10).Return(map[int]int{4: 2}, nil).Once()

	list, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, list.Reviews)
	assert.Empty(t, list.Reviews)

	list, err = svc.List(ctx, 10, 500)
	require.NoError(t, err)
	assert.Len(t, list.Reviews, 2)
	assert.Equal(t, 4.0, list.Stats.AverageRating)
}

func TestReviewService_Delete(t *testing.T) {
	ctx := context.Background()
	repository := mocks.NewReviewRepository(t)
	svc := service.NewReviewService(repository, mocks.NewReviewCache(t), nil, zap.NewNop())

	repository.On("DeleteReview", ctx, 10, 7).Return(nil).Once()
	repository.On("DeleteReview", ctx, 10, 8).Return(apperr.NotFound("review 8 not found")).Once()

	assert.NoError(t, svc.Delete(ctx, 10, 7))
	assert.True(t, apperr.Is(svc.Delete(ctx, 10, 8), apperr.KindNotFound))
}

func TestRedisCache_MarkerBlocksResubmission(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	cache := storage.NewRedisCache(client, 10*time.Minute)
	ctx := context.Background()

	key := cache.ReviewMarkerKey(10, "Ana@Example.com", "Great Pasta")
	assert.Equal(t, key, cache.ReviewMarkerKey(10, "ana@example.com", "great pasta"))
	assert.NotEqual(t, key, cache.ReviewMarkerKey(11, "ana@example.com", "great pasta"))

	fresh, err := cache.SetMarker(ctx, key)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = cache.SetMarker(ctx, key)
	require.NoError(t, err)
	assert.False(t, fresh)

	server.FastForward(11 * time.Minute)
	fresh, err = cache.SetMarker(ctx, key)
	require.NoError(t, err)
	assert.True(t, fresh)

	require.NoError(t, cache.ClearMarker(ctx, key))
	assert.False(t, server.Exists(key))
}
