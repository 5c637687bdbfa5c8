package mocks

import (
	"context"

	"qrmenu/internal/menu"

	"github.com/stretchr/testify/mock"
)

type MenuRepository struct {
	mock.Mock
}

func (_m *MenuRepository) GetMenu(ctx context.Context, restaurantID int) (*menu.Menu, error) {
	ret := _m.Called(ctx, restaurantID)
	if rf, ok := ret.Get(0).(func(context.Context, int) (*menu.Menu, error)); ok {
		return rf(ctx, restaurantID)
	}
	var r0 *menu.Menu
	if v := ret.Get(0); v != nil {
		r0 = v.(*menu.Menu)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) CreateMenu(ctx context.Context, m *menu.Menu) error {
	ret := _m.Called(ctx, m)
	if rf, ok := ret.Get(0).(func(context.Context, *menu.Menu) error); ok {
		return rf(ctx, m)
	}
	return ret.Error(0)
}

func (_m *MenuRepository) SaveMenu(ctx context.Context, m *menu.Menu, expectedVersion int) error {
	ret := _m.Called(ctx, m, expectedVersion)
	if rf, ok := ret.Get(0).(func(context.Context, *menu.Menu, int) error); ok {
		return rf(ctx, m, expectedVersion)
	}
	return ret.Error(0)
}

func NewMenuRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
