package mocks

import (
	"context"

	"qrmenu/menu-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type RestaurantRepository struct {
	mock.Mock
}

func (_m *RestaurantRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	ret := _m.Called(ctx, rest)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Restaurant) error); ok {
		return rf(ctx, rest)
	}
	return ret.Error(0)
}

func (_m *RestaurantRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.Restaurant
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantRepository) GetRestaurantByEmail(ctx context.Context, email string) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, email)
	var r0 *domain.Restaurant
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	ret := _m.Called(ctx, rest)
	return ret.Error(0)
}

func (_m *RestaurantRepository) UpdateRestaurantLogo(ctx context.Context, id int, logo string) error {
	ret := _m.Called(ctx, id, logo)
	return ret.Error(0)
}

func (_m *RestaurantRepository) SaveQRCode(ctx context.Context, id int, qr []byte) error {
	ret := _m.Called(ctx, id, qr)
	return ret.Error(0)
}

func (_m *RestaurantRepository) GetQRCode(ctx context.Context, id int) ([]byte, error) {
	ret := _m.Called(ctx, id)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}

func NewRestaurantRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *RestaurantRepository {
	m := &RestaurantRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
