package mocks

import (
	"context"

	"qrmenu/internal/menu"

	"github.com/stretchr/testify/mock"
)

type Catalog struct {
	mock.Mock
}

func (_m *Catalog) RestaurantExists(ctx context.Context, restaurantID int) (bool, error) {
	ret := _m.Called(ctx, restaurantID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *Catalog) GetMenu(ctx context.Context, restaurantID int) (*menu.Menu, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 *menu.Menu
	if v := ret.Get(0); v != nil {
		r0 = v.(*menu.Menu)
	}
	return r0, ret.Error(1)
}

func NewCatalog(t interface {
	mock.TestingT
	Cleanup(func())
}) *Catalog {
	m := &Catalog{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
