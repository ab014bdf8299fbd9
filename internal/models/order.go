package models

import (
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// statusRank orders the forward path. Cancelled sits outside it.
var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

// ParseOrderStatus normalizes a status string. "shipping" is accepted as an
// alias of shipped.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if st == "shipping" {
		st = StatusShipped
	}
	if _, ok := statusRank[st]; ok || st == StatusCancelled {
		return st, true
	}
	return "", false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order is the immutable record of a completed checkout. Only Status changes
// after creation.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string      `json:"user_id" gorm:"index;type:varchar(36)"`
	Date            time.Time   `json:"date" gorm:"column:placed_at;index"`
	Items           []CartItem  `json:"items" gorm:"serializer:json"`
	Address         Address     `json:"address" gorm:"serializer:json"`
	PaymentMethodID string      `json:"payment_method_id" gorm:"type:varchar(36)"`
	PaymentType     PaymentType `json:"payment_type" gorm:"type:varchar(10)"`
	Subtotal        int64       `json:"subtotal"`
	DeliveryFee     int64       `json:"delivery_fee"`
	Discount        int64       `json:"discount"`
	PromoCode       string      `json:"promo_code,omitempty" gorm:"type:varchar(32)"`
	Total           int64       `json:"total"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(16);index"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// CanCancel reports whether the customer may still cancel the order.
func (o *Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// CanAdvanceTo reports whether an operator may move the order to next.
// Forward moves must strictly increase along pending → processing → shipped →
// delivered; cancelled is reachable from any non-terminal status.
func (o *Order) CanAdvanceTo(next OrderStatus) bool {
	if o.Status.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	cur, ok := statusRank[o.Status]
	if !ok {
		return false
	}
	nr, ok := statusRank[next]
	return ok && nr > cur
}

// ItemCount returns the number of units in the order.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Order event types.
const (
	OrderCreatedEvent       = "order.created"
	OrderStatusChangedEvent = "order.status_changed"
	OrderCancelledEvent     = "order.cancelled"
)

// OrderEvent is the message published to the broker when an order changes.
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	Status    OrderStatus `json:"status"`
	Total     int64       `json:"total"`
	Items     int         `json:"items"`
	Timestamp time.Time   `json:"timestamp"`
}

// StatusUpdate is an externally driven status change, e.g. from fulfilment.
type StatusUpdate struct {
	OrderID string `json:"order_id" validate:"required"`
	Status  string `json:"status" validate:"required"`
}
