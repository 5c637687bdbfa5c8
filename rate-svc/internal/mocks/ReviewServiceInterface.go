package mocks

import (
	"context"

	"qrmenu/rate-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ReviewServiceInterface struct {
	mock.Mock
}

func (_m *ReviewServiceInterface) Create(ctx context.Context, in domain.CreateInput) (*domain.Review, error) {
	ret := _m.Called(ctx, in)
	var r0 *domain.Review
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Review)
	}
	return r0, ret.Error(1)
}

func (_m *ReviewServiceInterface) List(ctx context.Context, restaurantID, limit int) (*domain.ReviewList, error) {
	ret := _m.Called(ctx, restaurantID, limit)
	var r0 *domain.ReviewList
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.ReviewList)
	}
	return r0, ret.Error(1)
}

func (_m *ReviewServiceInterface) Delete(ctx context.Context, restaurantID, reviewID int) error {
	ret := _m.Called(ctx, restaurantID, reviewID)
	return ret.Error(0)
}

func NewReviewServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewServiceInterface {
	m := &ReviewServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
