package domain

import (
	"errors"
	"time"

	"qrmenu/internal/apperr"
)

var (
	// ErrOrderNumberTaken is returned by the store when the generated order
	// number collides with an existing one.
	ErrOrderNumberTaken = errors.New("order number already taken")
	// ErrStatusChanged is returned by the store when the order left the status
	// the update was computed from.
	ErrStatusChanged = errors.New("order status changed concurrently")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusServed, StatusCancelled}

// next is the only forward step allowed from each non-terminal status.
var next = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusServed,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another
// in a single step.
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return next[from] == to
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// OrderItem is the catalog item as it was when the order was placed.
type OrderItem struct {
	ID              int      `json:"id,omitempty"`
	MenuItemID      string   `json:"menuItemId"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	Image           string   `json:"image,omitempty"`
	Quantity        int      `json:"quantity"`
	ItemTotal       float64  `json:"itemTotal"`
}

type Order struct {
	ID                  int           `json:"id"`
	OrderNumber         string        `json:"orderNumber"`
	RestaurantID        int           `json:"restaurantId"`
	TableNumber         *int          `json:"tableNumber,omitempty"`
	CustomerInfo        CustomerInfo  `json:"customerInfo"`
	OrderType           OrderType     `json:"orderType"`
	Items               []OrderItem   `json:"items"`
	Subtotal            float64       `json:"subtotal"`
	Tax                 float64       `json:"tax"`
	Discount            float64       `json:"discount"`
	Total               float64       `json:"total"`
	Status              Status        `json:"status"`
	PaymentStatus       PaymentStatus `json:"paymentStatus"`
	PaymentMethod       string        `json:"paymentMethod,omitempty"`
	EstimatedTime       int           `json:"estimatedTime"`
	SpecialInstructions string        `json:"specialInstructions,omitempty"`
	OrderedAt           time.Time     `json:"orderedAt"`
	ConfirmedAt         *time.Time    `json:"confirmedAt,omitempty"`
	PreparingAt         *time.Time    `json:"preparingAt,omitempty"`
	ReadyAt             *time.Time    `json:"readyAt,omitempty"`
	ServedAt            *time.Time    `json:"servedAt,omitempty"`
	CancelledAt         *time.Time    `json:"cancelledAt,omitempty"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// TransitionTo moves the order to status s. Moving to the current status is a
// no-op and reports false. Each timestamp is stamped the first time its status
// is entered and never overwritten.
func (o *Order) TransitionTo(s Status, now time.Time) (bool, error) {
	if !s.Valid() {
		return false, apperr.Validation("invalid status %q", s)
	}
	if s == o.Status {
		return false, nil
	}
	if !CanTransition(o.Status, s) {
		return false, apperr.State("cannot change order status from %s to %s", o.Status, s)
	}

	o.Status = s
	o.UpdatedAt = now
	stamp := func(ts **time.Time) {
		if *ts == nil {
			t := now
			*ts = &t
		}
	}
	switch s {
	case StatusConfirmed:
		stamp(&o.ConfirmedAt)
	case StatusPreparing:
		stamp(&o.PreparingAt)
	case StatusReady:
		stamp(&o.ReadyAt)
	case StatusServed:
		stamp(&o.ServedAt)
	case StatusCancelled:
		stamp(&o.CancelledAt)
	}
	return true, nil
}
