// Package events defines the messages services exchange over Kafka.
package events

import (
	"strconv"
	"time"
)

const (
	TopicOrders  = "orders"
	TopicReviews = "reviews"
)

const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
	TypeNewReview          = "new_review"
)

// OrderEvent is published by order-svc whenever an order is created or its
// status changes, and relayed to restaurant staff by notify-svc.
type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      int       `json:"orderId"`
	OrderNumber  string    `json:"orderNumber"`
	RestaurantID int       `json:"restaurantId"`
	CustomerName string    `json:"customerName"`
	TableNumber  *int      `json:"tableNumber,omitempty"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// RestaurantChannel is the Redis pub/sub channel carrying a restaurant's
// accepted notifications.
func RestaurantChannel(restaurantID int) string {
	return "orders:restaurant:" + strconv.Itoa(restaurantID)
}

// Key partitions events by restaurant so each tenant's events stay ordered.
func (e OrderEvent) Key() []byte {
	return []byte(strconv.Itoa(e.RestaurantID))
}

func (e OrderEvent) Notification() Notification {
	return Notification{
		Type:         e.Type,
		RestaurantID: e.RestaurantID,
		OrderID:      e.OrderID,
		OrderNumber:  e.OrderNumber,
		CustomerName: e.CustomerName,
		TableNumber:  e.TableNumber,
		Total:        e.Total,
		Status:       e.Status,
		OccurredAt:   e.OccurredAt,
	}
}

// ReviewEvent is published by rate-svc when a review is accepted.
type ReviewEvent struct {
	Type         string    `json:"type"`
	ReviewID     int       `json:"reviewId"`
	RestaurantID int       `json:"restaurantId"`
	Rating       int       `json:"rating"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e ReviewEvent) Key() []byte {
	return []byte(strconv.Itoa(e.RestaurantID))
}

func (e ReviewEvent) Notification() Notification {
	return Notification{
		Type:         e.Type,
		RestaurantID: e.RestaurantID,
		ReviewID:     e.ReviewID,
		Rating:       e.Rating,
		OccurredAt:   e.Timestamp,
	}
}

// Notification is what a restaurant dashboard receives. Order fields are set
// for order events, review fields for new reviews.
type Notification struct {
	Type         string    `json:"type"`
	RestaurantID int       `json:"restaurantId"`
	OrderID      int       `json:"orderId,omitempty"`
	OrderNumber  string    `json:"orderNumber,omitempty"`
	CustomerName string    `json:"customerName,omitempty"`
	TableNumber  *int      `json:"tableNumber,omitempty"`
	Total        float64   `json:"total,omitempty"`
	Status       string    `json:"status,omitempty"`
	ReviewID     int       `json:"reviewId,omitempty"`
	Rating       int       `json:"rating,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Notifies reports whether staff should be told about the notification.
func (n Notification) Notifies() bool {
	switch n.Type {
	case TypeOrderCreated, TypeOrderStatusChanged, TypeNewReview:
		return true
	}
	return false
}

// DedupKey identifies one logical notification. A status change is keyed by
// the status it moved to so successive changes are not collapsed.
func (n Notification) DedupKey() string {
	prefix := "notify:" + strconv.Itoa(n.RestaurantID) + ":"
	if n.Type == TypeNewReview {
		return prefix + "review:" + strconv.Itoa(n.ReviewID)
	}
	key := prefix + n.OrderNumber + ":" + n.Type
	if n.Type == TypeOrderStatusChanged {
		key += ":" + n.Status
	}
	return key
}

// Stale reports whether the notification is older than window at now.
func (n Notification) Stale(now time.Time, window time.Duration) bool {
	return now.Sub(n.OccurredAt) > window
}
