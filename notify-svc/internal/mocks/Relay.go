package mocks

import (
	"context"

	"qrmenu/internal/events"

	"github.com/stretchr/testify/mock"
)

type Relay struct {
	mock.Mock
}

func (_m *Relay) Claim(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)
	return ret.Bool(0), ret.Error(1)
}

func (_m *Relay) Release(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

func (_m *Relay) Publish(ctx context.Context, e events.Notification) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *Relay) Subscribe(ctx context.Context, restaurantID int) (<-chan events.Notification, func() error, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 <-chan events.Notification
	if v := ret.Get(0); v != nil {
		r0 = v.(<-chan events.Notification)
	}
	var r1 func() error
	if v := ret.Get(1); v != nil {
		r1 = v.(func() error)
	}
	return r0, r1, ret.Error(2)
}

func NewRelay(t interface {
	mock.TestingT
	Cleanup(func())
}) *Relay {
	m := &Relay{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
