package shop

import (
	"time"

	"florist/internal/models"
)

// OrderDraft is everything needed to record a purchase.
type OrderDraft struct {
	UserID  string
	Items   []models.CartItem
	Address models.Address
	Payment models.PaymentMethod
	Quote   Quote
}

// CreateOrder builds a pending order from draft. Items are copied so later
// cart changes cannot reach the historical record.
func CreateOrder(draft OrderDraft, id string, now time.Time) *models.Order {
	items := make([]models.CartItem, len(draft.Items))
	copy(items, draft.Items)

	q := draft.Quote
	return &models.Order{
		ID:              id,
		UserID:          draft.UserID,
		Date:            now,
		Items:           items,
		Address:         draft.Address,
		PaymentMethodID: draft.Payment.ID,
		PaymentType:     draft.Payment.Type,
		Subtotal:        q.Subtotal,
		DeliveryFee:     q.DeliveryFee,
		Discount:        q.Discount,
		PromoCode:       q.PromoCode,
		Total:           q.Subtotal + q.DeliveryFee - q.Discount,
		Status:          models.StatusPending,
		UpdatedAt:       now,
	}
}

// OrderHistory keeps a user's orders, most recent first.
type OrderHistory struct {
	orders []*models.Order
}

// Prepend records a new order at the front.
func (h *OrderHistory) Prepend(o *models.Order) {
	h.orders = append([]*models.Order{o}, h.orders...)
}

// Load replaces the history, e.g. when hydrating from storage. The input is
// expected most recent first.
func (h *OrderHistory) Load(orders []models.Order) {
	h.orders = make([]*models.Order, len(orders))
	for i := range orders {
		o := orders[i]
		h.orders[i] = &o
	}
}

// List returns copies of all orders.
func (h *OrderHistory) List() []models.Order {
	out := make([]models.Order, len(h.orders))
	for i, o := range h.orders {
		out[i] = *o
	}
	return out
}

// Find returns a copy of the order with id.
func (h *OrderHistory) Find(id string) (models.Order, bool) {
	if o := h.find(id); o != nil {
		return *o, true
	}
	return models.Order{}, false
}

// Cancel marks a pending or processing order as cancelled.
func (h *OrderHistory) Cancel(id string, now time.Time) (models.Order, error) {
	o := h.find(id)
	if o == nil {
		return models.Order{}, wrap(ErrOrderNotFound, "%s", id)
	}
	if err := CheckCancel(o); err != nil {
		return *o, err
	}
	o.Status = models.StatusCancelled
	o.UpdatedAt = now
	return *o, nil
}

// Advance applies an externally driven status change.
func (h *OrderHistory) Advance(id string, next models.OrderStatus, now time.Time) (models.Order, error) {
	o := h.find(id)
	if o == nil {
		return models.Order{}, wrap(ErrOrderNotFound, "%s", id)
	}
	if err := CheckAdvance(o, next); err != nil {
		return *o, err
	}
	o.Status = next
	o.UpdatedAt = now
	return *o, nil
}

// Replace overwrites the stored copy of an order that changed elsewhere.
// Unknown orders are prepended.
func (h *OrderHistory) Replace(order models.Order) {
	if o := h.find(order.ID); o != nil {
		*o = order
		return
	}
	h.Prepend(&order)
}

func (h *OrderHistory) find(id string) *models.Order {
	for _, o := range h.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// CheckAdvance validates an operator transition of o to next.
func CheckAdvance(o *models.Order, next models.OrderStatus) error {
	if !o.CanAdvanceTo(next) {
		return wrap(ErrInvalidTransition, "%s -> %s", o.Status, next)
	}
	return nil
}

// CheckCancel validates a customer cancellation of o.
func CheckCancel(o *models.Order) error {
	if !o.CanCancel() {
		return wrap(ErrInvalidTransition, "order %s is %s", o.ID, o.Status)
	}
	return nil
}
