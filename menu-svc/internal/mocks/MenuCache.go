package mocks

import (
	"context"

	"qrmenu/menu-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuCache struct {
	mock.Mock
}

func (_m *MenuCache) GetPublicMenu(ctx context.Context, restaurantID int) (*domain.PublicMenu, bool, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 *domain.PublicMenu
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.PublicMenu)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *MenuCache) SetPublicMenu(ctx context.Context, restaurantID int, pm *domain.PublicMenu) error {
	ret := _m.Called(ctx, restaurantID, pm)
	return ret.Error(0)
}

func (_m *MenuCache) InvalidatePublicMenu(ctx context.Context, restaurantID int) error {
	ret := _m.Called(ctx, restaurantID)
	return ret.Error(0)
}

func NewMenuCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuCache {
	m := &MenuCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
