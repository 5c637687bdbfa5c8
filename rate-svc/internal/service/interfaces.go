package service

import (
	"context"

	"qrmenu/internal/events"
	"qrmenu/rate-svc/internal/domain"
)

type ReviewServiceInterface interface {
	Create(ctx context.Context, in domain.CreateInput) (*domain.Review, error)
	List(ctx context.Context, restaurantID, limit int) (*domain.ReviewList, error)
	Delete(ctx context.Context, restaurantID, reviewID int) error
}

type ReviewRepository interface {
	RestaurantExists(ctx context.Context, restaurantID int) (bool, error)
	InsertReview(ctx context.Context, review *domain.Review) error
	ListReviews(ctx context.Context, restaurantID, limit int) ([]domain.Review, error)
	RatingDistribution(ctx context.Context, restaurantID int) (map[int]int, error)
	DeleteReview(ctx context.Context, restaurantID, reviewID int) error
}

// ReviewCache holds short-lived markers that block identical resubmissions.
type ReviewCache interface {
	ReviewMarkerKey(restaurantID int, author, comment string) string
	SetMarker(ctx context.Context, key string) (bool, error)
	ClearMarker(ctx context.Context, key string) error
}

type ReviewPublisher interface {
	PublishReview(ctx context.Context, e events.ReviewEvent) error
}

var _ ReviewServiceInterface = (*ReviewService)(nil)
