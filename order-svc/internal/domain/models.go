package domain

import (
	"math"
	"time"

	"qrmenu/internal/cart"
	"qrmenu/internal/pricing"
)

type ItemInput struct {
	MenuItemID      string   `json:"menuItemId"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	Image           string   `json:"image,omitempty"`
	Quantity        int      `json:"quantity"`
}

type CreateInput struct {
	RestaurantID        int          `json:"restaurantId"`
	TableNumber         *int         `json:"tableNumber,omitempty"`
	CustomerInfo        CustomerInfo `json:"customerInfo"`
	OrderType           OrderType    `json:"orderType"`
	Items               []ItemInput  `json:"items"`
	PaymentMethod       string       `json:"paymentMethod,omitempty"`
	SpecialInstructions string       `json:"specialInstructions,omitempty"`
}

type UpdateInput struct {
	Status        *Status        `json:"status"`
	PaymentStatus *PaymentStatus `json:"paymentStatus"`
	PaymentMethod *string        `json:"paymentMethod"`
	EstimatedTime *int           `json:"estimatedTime"`
}

type ListQuery struct {
	Status    Status
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// MaxOffset bounds how far a listing can page.
const MaxOffset = math.MaxInt32

// Offset is the number of rows skipped before the page, clamped to MaxOffset.
func (q ListQuery) Offset() int {
	if q.Page < 2 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > MaxOffset/q.Limit {
		return MaxOffset
	}
	return (q.Page - 1) * q.Limit
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type StatusStat struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

type OrderList struct {
	Orders     []Order               `json:"orders"`
	Pagination Pagination            `json:"pagination"`
	Stats      map[Status]StatusStat `json:"stats"`
}

// Created is the summary returned to a customer who just placed an order.
type Created struct {
	ID            int       `json:"id"`
	OrderNumber   string    `json:"orderNumber"`
	Status        Status    `json:"status"`
	Total         float64   `json:"total"`
	EstimatedTime int       `json:"estimatedTime"`
	OrderedAt     time.Time `json:"orderedAt"`
}

func (o *Order) Summary() Created {
	return Created{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		Total:         o.Total,
		EstimatedTime: o.EstimatedTime,
		OrderedAt:     o.OrderedAt,
	}
}

// Tracking is the customer-facing view of an order looked up by number.
type Tracking struct {
	OrderNumber   string        `json:"orderNumber"`
	RestaurantID  int           `json:"restaurantId"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	EstimatedTime int           `json:"estimatedTime"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	OrderedAt     time.Time     `json:"orderedAt"`
	ConfirmedAt   *time.Time    `json:"confirmedAt,omitempty"`
	PreparingAt   *time.Time    `json:"preparingAt,omitempty"`
	ReadyAt       *time.Time    `json:"readyAt,omitempty"`
	ServedAt      *time.Time    `json:"servedAt,omitempty"`
	CancelledAt   *time.Time    `json:"cancelledAt,omitempty"`
}

func (o *Order) Tracking() Tracking {
	return Tracking{
		OrderNumber:   o.OrderNumber,
		RestaurantID:  o.RestaurantID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		EstimatedTime: o.EstimatedTime,
		Items:         o.Items,
		Total:         o.Total,
		OrderedAt:     o.OrderedAt,
		ConfirmedAt:   o.ConfirmedAt,
		PreparingAt:   o.PreparingAt,
		ReadyAt:       o.ReadyAt,
		ServedAt:      o.ServedAt,
		CancelledAt:   o.CancelledAt,
	}
}

// CartView is a cart together with its price breakdown.
type CartView struct {
	*cart.Cart
	ItemCount int               `json:"itemCount"`
	Totals    pricing.Breakdown `json:"totals"`
}

type AddToCartInput struct {
	RestaurantID int           `json:"restaurantId"`
	Item         cart.Snapshot `json:"item"`
}
