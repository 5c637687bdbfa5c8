package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/events"
	"qrmenu/internal/pricing"
	"qrmenu/order-svc/internal/domain"

	"go.uber.org/zap"
)

const (
	maxNumberAttempts = 5
	defaultPageLimit  = 20
	maxPageLimit      = 100
)

var sortKeys = map[string]bool{
	"orderedAt":   true,
	"total":       true,
	"status":      true,
	"orderNumber": true,
}

// OrderNumber formats ORD-<unix ms>-<3 random digits>. Uniqueness is enforced
// by the store, not here.
func OrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%03d", now.UnixMilli(), rand.Intn(1000))
}

type OrderService struct {
	repo      OrderRepository
	catalog   Catalog
	publisher EventPublisher
	logger    *zap.Logger
	taxRate   float64
	sandbox   bool
	now       func() time.Time
}

func NewOrderService(repo OrderRepository, catalog Catalog, publisher EventPublisher, logger *zap.Logger, taxRate float64, sandbox bool) *OrderService {
	return &OrderService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		taxRate:   taxRate,
		sandbox:   sandbox,
		now:       time.Now,
	}
}

func validateCreate(in *domain.CreateInput) error {
	if in.RestaurantID <= 0 {
		return apperr.Validation("restaurantId is required")
	}
	if len(in.Items) == 0 {
		return apperr.Validation("order must contain at least one item")
	}
	in.CustomerInfo.Name = strings.TrimSpace(in.CustomerInfo.Name)
	in.CustomerInfo.Phone = strings.TrimSpace(in.CustomerInfo.Phone)
	in.CustomerInfo.Email = strings.TrimSpace(in.CustomerInfo.Email)
	if in.CustomerInfo.Name == "" || in.CustomerInfo.Phone == "" {
		return apperr.Validation("customer name and phone are required")
	}
	if in.OrderType == "" {
		in.OrderType = domain.OrderTypeDineIn
	}
	if !in.OrderType.Valid() {
		return apperr.Validation("invalid order type %q", in.OrderType)
	}
	if in.TableNumber != nil && *in.TableNumber < 1 {
		return apperr.Validation("tableNumber must be positive")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.MenuItemID) == "" {
			return apperr.Validation("menuItemId is required for every item")
		}
		if it.Quantity < 1 {
			return apperr.Validation("quantity must be at least 1 for item %s", it.MenuItemID)
		}
	}
	return nil
}

func (s *OrderService) Create(ctx context.Context, in domain.CreateInput) (*domain.Order, error) {
	if err := validateCreate(&in); err != nil {
		return nil, err
	}
	items, err := s.resolveItems(ctx, in)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(items))
	for i := range items {
		items[i].ItemTotal = pricing.LineTotal(items[i].Price, items[i].DiscountedPrice, items[i].Quantity)
		lines = append(lines, pricing.Line{
			Price:           items[i].Price,
			DiscountedPrice: items[i].DiscountedPrice,
			Quantity:        items[i].Quantity,
		})
	}
	totals, err := pricing.Compute(lines, s.taxRate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o := &domain.Order{
		RestaurantID:        in.RestaurantID,
		TableNumber:         in.TableNumber,
		CustomerInfo:        in.CustomerInfo,
		OrderType:           in.OrderType,
		Items:               items,
		Subtotal:            totals.Subtotal,
		Tax:                 totals.Tax,
		Discount:            totals.Discount,
		Total:               totals.Total,
		Status:              domain.StatusPending,
		PaymentStatus:       domain.PaymentPending,
		PaymentMethod:       in.PaymentMethod,
		SpecialInstructions: in.SpecialInstructions,
		OrderedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.insert(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.Int("restaurant_id", o.RestaurantID),
		zap.String("order_number", o.OrderNumber),
		zap.Float64("total", o.Total))
	s.publish(ctx, events.TypeOrderCreated, o)
	return o, nil
}

// resolveItems snapshots each requested item from the restaurant's menu. In
// sandbox mode an unknown restaurant falls back to the client's snapshots.
func (s *OrderService) resolveItems(ctx context.Context, in domain.CreateInput) ([]domain.OrderItem, error) {
	m, err := restaurantMenu(ctx, s.catalog, s.sandbox, s.logger, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return clientItems(in.Items)
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, req := range in.Items {
		it, err := orderableItem(m, req.MenuItemID)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.OrderItem{
			MenuItemID:      it.ID,
			Name:            it.Name,
			Price:           it.Price,
			DiscountedPrice: it.DiscountedPrice,
			Image:           it.Image,
			Quantity:        req.Quantity,
		})
	}
	return items, nil
}

func clientItems(in []domain.ItemInput) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(in))
	for _, req := range in {
		if strings.TrimSpace(req.Name) == "" {
			return nil, apperr.Validation("item name is required")
		}
		items = append(items, domain.OrderItem{
			MenuItemID:      req.MenuItemID,
			Name:            req.Name,
			Price:           req.Price,
			DiscountedPrice: req.DiscountedPrice,
			Image:           req.Image,
			Quantity:        req.Quantity,
		})
	}
	return items, nil
}

func (s *OrderService) insert(ctx context.Context, o *domain.Order) error {
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		o.OrderNumber = OrderNumber(s.now())
		err := s.repo.CreateOrder(ctx, o)
		if errors.Is(err, domain.ErrOrderNumberTaken) {
			s.logger.Warn("order number collision, retrying",
				zap.String("order_number", o.OrderNumber), zap.Int("attempt", attempt))
			continue
		}
		return err
	}
	return apperr.Conflict("could not allocate a unique order number, retry")
}

func (s *OrderService) publish(ctx context.Context, eventType string, o *domain.Order) {
	if s.publisher == nil {
		return
	}
	e := events.OrderEvent{
		Type:         eventType,
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		RestaurantID: o.RestaurantID,
		CustomerName: o.CustomerInfo.Name,
		TableNumber:  o.TableNumber,
		Total:        o.Total,
		Status:       string(o.Status),
		OccurredAt:   s.now(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, e); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("type", eventType), zap.String("order_number", o.OrderNumber), zap.Error(err))
	}
}

// owned loads the order and hides orders of other restaurants.
func (s *OrderService) owned(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != restaurantID {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	return o, nil
}

func (s *OrderService) save(ctx context.Context, o *domain.Order, prev domain.Status) error {
	err := s.repo.UpdateOrder(ctx, o, prev)
	if errors.Is(err, domain.ErrStatusChanged) {
		return apperr.Conflict("order %d was updated concurrently, retry", o.ID)
	}
	return err
}

func (s *OrderService) Update(ctx context.Context, restaurantID, orderID int, in domain.UpdateInput) (*domain.Order, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.Validation("invalid status %q", *in.Status)
	}
	if in.PaymentStatus != nil && !in.PaymentStatus.Valid() {
		return nil, apperr.Validation("invalid payment status %q", *in.PaymentStatus)
	}
	if in.EstimatedTime != nil && *in.EstimatedTime < 0 {
		return nil, apperr.Validation("estimatedTime must not be negative")
	}

	o, err := s.owned(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	prev := o.Status
	now := s.now()

	changed := false
	if in.Status != nil {
		if changed, err = o.TransitionTo(*in.Status, now); err != nil {
			return nil, err
		}
	}
	if in.PaymentStatus != nil {
		o.PaymentStatus = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = *in.PaymentMethod
	}
	if in.EstimatedTime != nil {
		o.EstimatedTime = *in.EstimatedTime
	}
	o.UpdatedAt = now

	if err := s.save(ctx, o, prev); err != nil {
		return nil, err
	}
	if changed {
		s.logger.Info("order status changed",
			zap.String("order_number", o.OrderNumber), zap.String("from", string(prev)), zap.String("to", string(o.Status)))
		s.publish(ctx, events.TypeOrderStatusChanged, o)
	}
	return o, nil
}

// Cancel is a soft delete. Cancelling twice succeeds without a write.
func (s *OrderService) Cancel(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	o, err := s.owned(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	prev := o.Status
	changed, err := o.TransitionTo(domain.StatusCancelled, s.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}
	if err := s.save(ctx, o, prev); err != nil {
		return nil, err
	}
	s.logger.Info("order cancelled", zap.String("order_number", o.OrderNumber), zap.String("from", string(prev)))
	s.publish(ctx, events.TypeOrderStatusChanged, o)
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	return s.owned(ctx, restaurantID, orderID)
}

func (s *OrderService) Track(ctx context.Context, orderNumber string) (*domain.Tracking, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, apperr.Validation("order number is required")
	}
	o, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	t := o.Tracking()
	return &t, nil
}

func normalizeQuery(q domain.ListQuery) (domain.ListQuery, error) {
	if q.Status != "" && !q.Status.Valid() {
		return q, apperr.Validation("invalid status %q", q.Status)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if q.SortBy == "" {
		q.SortBy = "orderedAt"
	}
	if !sortKeys[q.SortBy] {
		return q, apperr.Validation("cannot sort by %q", q.SortBy)
	}
	q.SortOrder = strings.ToLower(q.SortOrder)
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		return q, apperr.Validation("sortOrder must be asc or desc")
	}
	return q, nil
}

func (s *OrderService) List(ctx context.Context, restaurantID int, q domain.ListQuery) (*domain.OrderList, error) {
	q, err := normalizeQuery(q)
	if err != nil {
		return nil, err
	}
	orders, total, err := s.repo.ListOrders(ctx, restaurantID, q)
	if err != nil {
		return nil, err
	}
	counted, err := s.repo.OrderStats(ctx, restaurantID, q.Status)
	if err != nil {
		return nil, err
	}

	stats := make(map[domain.Status]domain.StatusStat, len(domain.Statuses))
	for _, st := range domain.Statuses {
		if q.Status == "" || q.Status == st {
			stats[st] = counted[st]
		}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &domain.OrderList{
		Orders: orders,
		Pagination: domain.Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: (total + q.Limit - 1) / q.Limit,
		},
		Stats: stats,
	}, nil
}
