package service

import (
	"context"

	"qrmenu/internal/cart"
	"qrmenu/internal/events"
	"qrmenu/internal/menu"
	"qrmenu/order-svc/internal/domain"
)

// OrderRepository persists orders. CreateOrder returns
// domain.ErrOrderNumberTaken on a number collision; UpdateOrder returns
// domain.ErrStatusChanged when the stored status is no longer prevStatus.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, o *domain.Order, prevStatus domain.Status) error
	ListOrders(ctx context.Context, restaurantID int, q domain.ListQuery) ([]domain.Order, int, error)
	OrderStats(ctx context.Context, restaurantID int, status domain.Status) (map[domain.Status]domain.StatusStat, error)
}

// Catalog is the read side of the menu catalog used to price orders.
type Catalog interface {
	RestaurantExists(ctx context.Context, restaurantID int) (bool, error)
	GetMenu(ctx context.Context, restaurantID int) (*menu.Menu, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, e events.OrderEvent) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, in domain.CreateInput) (*domain.Order, error)
	Update(ctx context.Context, restaurantID, orderID int, in domain.UpdateInput) (*domain.Order, error)
	Cancel(ctx context.Context, restaurantID, orderID int) (*domain.Order, error)
	Get(ctx context.Context, restaurantID, orderID int) (*domain.Order, error)
	Track(ctx context.Context, orderNumber string) (*domain.Tracking, error)
	List(ctx context.Context, restaurantID int, q domain.ListQuery) (*domain.OrderList, error)
}

type CartServiceInterface interface {
	Get(ctx context.Context, sessionID string) (*domain.CartView, error)
	AddItem(ctx context.Context, sessionID string, in domain.AddToCartInput) (*domain.CartView, error)
	Increase(ctx context.Context, sessionID, lineID string) (*domain.CartView, error)
	Decrease(ctx context.Context, sessionID, lineID string) (*domain.CartView, error)
	Remove(ctx context.Context, sessionID, lineID string) (*domain.CartView, error)
	Clear(ctx context.Context, sessionID string) (*domain.CartView, error)
	SetCustomer(ctx context.Context, sessionID string, customer cart.Customer) (*domain.CartView, error)
	Checkout(ctx context.Context, sessionID string) (*domain.Order, error)
}

var (
	_ OrderServiceInterface = (*OrderService)(nil)
	_ CartServiceInterface  = (*CartService)(nil)
)
