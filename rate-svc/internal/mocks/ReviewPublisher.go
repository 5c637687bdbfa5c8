package mocks

import (
	"context"

	"qrmenu/internal/events"

	"github.com/stretchr/testify/mock"
)

type ReviewPublisher struct {
	mock.Mock
}

func (_m *ReviewPublisher) PublishReview(ctx context.Context, e events.ReviewEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func NewReviewPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewPublisher {
	m := &ReviewPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
