package service

import (
	"context"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/events"
	"qrmenu/rate-svc/internal/domain"

	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ReviewService struct {
	repository ReviewRepository
	cache      ReviewCache
	publisher  ReviewPublisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewReviewService(repository ReviewRepository, cache ReviewCache, publisher ReviewPublisher, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		repository: repository,
		cache:      cache,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func validateCreate(in *domain.CreateInput) error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.Comment = strings.TrimSpace(in.Comment)

	if in.RestaurantID <= 0 {
		return apperr.Validation("restaurantId is required")
	}
	if in.CustomerName == "" || in.Comment == "" {
		return apperr.Validation("customer name and comment are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}
	if in.CustomerEmail != "" {
		if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
			return apperr.Validation("invalid email %q", in.CustomerEmail)
		}
	}
	return nil
}

func (s *ReviewService) Create(ctx context.Context, in domain.CreateInput) (*domain.Review, error) {
	if err := validateCreate(&in); err != nil {
		return nil, err
	}
	exists, err := s.repository.RestaurantExists(ctx, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("restaurant %d not found", in.RestaurantID)
	}

	author := in.CustomerEmail
	if author == "" {
		author = in.CustomerName
	}
	markerKey := s.cache.ReviewMarkerKey(in.RestaurantID, author, in.Comment)
	fresh, err := s.cache.SetMarker(ctx, markerKey)
	if err != nil {
		s.logger.Warn("review marker unavailable", zap.String("key", markerKey), zap.Error(err))
	} else if !fresh {
		return nil, apperr.Conflict("this review was already submitted")
	}

	review := &domain.Review{
		RestaurantID:  in.RestaurantID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Rating:        in.Rating,
		Comment:       in.Comment,
		Status:        domain.StatusApproved,
	}
	if err := s.repository.InsertReview(ctx, review); err != nil {
		if fresh {
			if clearErr := s.cache.ClearMarker(ctx, markerKey); clearErr != nil {
				s.logger.Warn("failed to clear review marker", zap.String("key", markerKey), zap.Error(clearErr))
			}
		}
		return nil, err
	}

	s.logger.Info("review created",
		zap.Int("restaurant_id", review.RestaurantID), zap.Int("review_id", review.ID), zap.Int("rating", review.Rating))
	if s.publisher != nil {
		e := events.ReviewEvent{
			Type:         events.TypeNewReview,
			ReviewID:     review.ID,
			RestaurantID: review.RestaurantID,
			Rating:       review.Rating,
			Timestamp:    s.now(),
		}
		if err := s.publisher.PublishReview(ctx, e); err != nil {
			s.logger.Warn("failed to publish review event", zap.Int("review_id", review.ID), zap.Error(err))
		}
	}
	return review, nil
}

// Summarize turns a rating -> count distribution into review stats.
func Summarize(distribution map[int]int) domain.Stats {
	stats := domain.Stats{RatingBreakdown: make(map[string]int, 5)}
	sum := 0
	for rating := 1; rating <= 5; rating++ {
		count := distribution[rating]
		stats.RatingBreakdown[strconv.Itoa(rating)] = count
		stats.TotalReviews += count
		sum += rating * count
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = math.Round(float64(sum)/float64(stats.TotalReviews)*10) / 10
	}
	return stats
}

func (s *ReviewService) List(ctx context.Context, restaurantID, limit int) (*domain.ReviewList, error) {
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	reviews, err := s.repository.ListReviews(ctx, restaurantID, limit)
	if err != nil {
		return nil, err
	}
	distribution, err := s.repository.RatingDistribution(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return &domain.ReviewList{Reviews: reviews, Stats: Summarize(distribution)}, nil
}

func (s *ReviewService) Delete(ctx context.Context, restaurantID, reviewID int) error {
	if err := s.repository.DeleteReview(ctx, restaurantID, reviewID); err != nil {
		return err
	}
	s.logger.Info("review deleted", zap.Int("restaurant_id", restaurantID), zap.Int("review_id", reviewID))
	return nil
}
