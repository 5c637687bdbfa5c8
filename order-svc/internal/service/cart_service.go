package service

import (
	"context"

	"qrmenu/internal/apperr"
	"qrmenu/internal/cart"
	"qrmenu/order-svc/internal/domain"

	"go.uber.org/zap"
)

// CartService exposes server-side carts keyed by an opaque client session id
// and turns a filled cart into an order.
type CartService struct {
	store   *cart.Store
	orders  OrderServiceInterface
	catalog Catalog
	taxRate float64
	sandbox bool
	logger  *zap.Logger
}

func NewCartService(store *cart.Store, orders OrderServiceInterface, catalog Catalog, taxRate float64, sandbox bool, logger *zap.Logger) *CartService {
	return &CartService{store: store, orders: orders, catalog: catalog, taxRate: taxRate, sandbox: sandbox, logger: logger}
}

func (s *CartService) view(c *cart.Cart, err error) (*domain.CartView, error) {
	if err != nil {
		return nil, err
	}
	totals, err := c.Totals(s.taxRate)
	if err != nil {
		return nil, err
	}
	return &domain.CartView{Cart: c, ItemCount: c.ItemCount(), Totals: totals}, nil
}

func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.CartView, error) {
	return s.view(s.store.Peek(ctx, sessionID))
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, in domain.AddToCartInput) (*domain.CartView, error) {
	if in.RestaurantID <= 0 {
		return nil, apperr.Validation("restaurantId is required")
	}
	item, err := s.catalogSnapshot(ctx, in.RestaurantID, in.Item)
	if err != nil {
		return nil, err
	}
	return s.view(s.store.AddItem(ctx, sessionID, in.RestaurantID, item))
}

// catalogSnapshot replaces the client's copy of an item with the catalog's,
// so the cart shows the prices checkout will charge.
func (s *CartService) catalogSnapshot(ctx context.Context, restaurantID int, item cart.Snapshot) (cart.Snapshot, error) {
	m, err := restaurantMenu(ctx, s.catalog, s.sandbox, s.logger, restaurantID)
	if err != nil || m == nil {
		return item, err
	}
	it, err := orderableItem(m, item.MenuItemID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	return cart.Snapshot{
		MenuItemID:      it.ID,
		Name:            it.Name,
		Price:           it.Price,
		DiscountedPrice: it.DiscountedPrice,
		Image:           it.Image,
	}, nil
}

func (s *CartService) Increase(ctx context.Context, sessionID, lineID string) (*domain.CartView, error) {
	return s.view(s.store.IncreaseQuantity(ctx, sessionID, lineID))
}

func (s *CartService) Decrease(ctx context.Context, sessionID, lineID string) (*domain.CartView, error) {
	return s.view(s.store.DecreaseQuantity(ctx, sessionID, lineID))
}

func (s *CartService) Remove(ctx context.Context, sessionID, lineID string) (*domain.CartView, error) {
	return s.view(s.store.RemoveLine(ctx, sessionID, lineID))
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.CartView, error) {
	return s.view(s.store.Clear(ctx, sessionID))
}

func (s *CartService) SetCustomer(ctx context.Context, sessionID string, customer cart.Customer) (*domain.CartView, error) {
	return s.view(s.store.SetCustomer(ctx, sessionID, customer))
}

// Checkout places an order from the cart and empties it. The customer details
// stay on the session for the next order.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (*domain.Order, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, apperr.Validation("cart is empty")
	}
	if c.Customer == nil {
		return nil, apperr.Validation("customer name and phone are required")
	}

	in := domain.CreateInput{
		RestaurantID: c.RestaurantID,
		TableNumber:  c.Customer.TableNumber,
		CustomerInfo: domain.CustomerInfo{
			Name:  c.Customer.Name,
			Phone: c.Customer.Phone,
			Email: c.Customer.Email,
		},
		OrderType:           domain.OrderType(c.Customer.OrderType),
		SpecialInstructions: c.Customer.SpecialInstructions,
	}
	for _, line := range c.Lines {
		in.Items = append(in.Items, domain.ItemInput{
			MenuItemID:      line.Item.MenuItemID,
			Name:            line.Item.Name,
			Price:           line.Item.Price,
			DiscountedPrice: line.Item.DiscountedPrice,
			Image:           line.Item.Image,
			Quantity:        line.Quantity,
		})
	}

	o, err := s.orders.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("failed to clear cart after checkout", zap.String("session_id", sessionID), zap.Error(err))
	}
	return o, nil
}
