package mocks

import (
	"context"

	"qrmenu/internal/events"

	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) PublishOrderEvent(ctx context.Context, e events.OrderEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
