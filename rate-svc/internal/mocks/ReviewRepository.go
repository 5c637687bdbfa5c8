package mocks

import (
	"context"

	"qrmenu/rate-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ReviewRepository struct {
	mock.Mock
}

func (_m *ReviewRepository) RestaurantExists(ctx context.Context, restaurantID int) (bool, error) {
	ret := _m.Called(ctx, restaurantID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *ReviewRepository) InsertReview(ctx context.Context, review *domain.Review) error {
	ret := _m.Called(ctx, review)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Review) error); ok {
		return rf(ctx, review)
	}
	return ret.Error(0)
}

func (_m *ReviewRepository) ListReviews(ctx context.Context, restaurantID, limit int) ([]domain.Review, error) {
	ret := _m.Called(ctx, restaurantID, limit)
	var r0 []domain.Review
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Review)
	}
	return r0, ret.Error(1)
}

func (_m *ReviewRepository) RatingDistribution(ctx context.Context, restaurantID int) (map[int]int, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 map[int]int
	if v := ret.Get(0); v != nil {
		r0 = v.(map[int]int)
	}
	return r0, ret.Error(1)
}

func (_m *ReviewRepository) DeleteReview(ctx context.Context, restaurantID, reviewID int) error {
	ret := _m.Called(ctx, restaurantID, reviewID)
	return ret.Error(0)
}

func NewReviewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewRepository {
	m := &ReviewRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
