package mocks

import (
	"context"

	"qrmenu/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func (_m *OrderRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	ret := _m.Called(ctx, o)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Order) error); ok {
		return rf(ctx, o)
	}
	return ret.Error(0)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	if rf, ok := ret.Get(0).(func(context.Context, int) (*domain.Order, error)); ok {
		return rf(ctx, id)
	}
	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	ret := _m.Called(ctx, orderNumber)
	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) UpdateOrder(ctx context.Context, o *domain.Order, prevStatus domain.Status) error {
	ret := _m.Called(ctx, o, prevStatus)
	return ret.Error(0)
}

func (_m *OrderRepository) ListOrders(ctx context.Context, restaurantID int, q domain.ListQuery) ([]domain.Order, int, error) {
	ret := _m.Called(ctx, restaurantID, q)
	var r0 []domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Order)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (_m *OrderRepository) OrderStats(ctx context.Context, restaurantID int, status domain.Status) (map[domain.Status]domain.StatusStat, error) {
	ret := _m.Called(ctx, restaurantID, status)
	var r0 map[domain.Status]domain.StatusStat
	if v := ret.Get(0); v != nil {
		r0 = v.(map[domain.Status]domain.StatusStat)
	}
	return r0, ret.Error(1)
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
