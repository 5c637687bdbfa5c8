package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ReviewCache struct {
	mock.Mock
}

func (_m *ReviewCache) ReviewMarkerKey(restaurantID int, author, comment string) string {
	ret := _m.Called(restaurantID, author, comment)
	return ret.String(0)
}

func (_m *ReviewCache) SetMarker(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)
	return ret.Bool(0), ret.Error(1)
}

func (_m *ReviewCache) ClearMarker(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

func NewReviewCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewCache {
	m := &ReviewCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
