package services

import (
	"fmt"
	"log"

	"florist/internal/models"
	"florist/internal/repositories"
	"florist/internal/shop"
)

// OrderEventPublisher hands order events to the fulfilment pipeline.
type OrderEventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// CheckoutView is the checkout as returned to clients.
type CheckoutView struct {
	State   shop.CheckoutState    `json:"state"`
	Items   []models.CartItem     `json:"items"`
	Quote   shop.Quote            `json:"quote"`
	Address *models.Address       `json:"address,omitempty"`
	Payment *models.PaymentMethod `json:"payment,omitempty"`
}

func viewCheckout(sess *shop.Session) *CheckoutView {
	co := sess.Checkout()
	return &CheckoutView{
		State:   co.State(),
		Items:   sess.Cart.Items(),
		Quote:   sess.Quote(),
		Address: co.Address(),
		Payment: co.Payment(),
	}
}

// CheckoutService drives a session's checkout from review to a placed order.
type CheckoutService struct {
	registry      *SessionRegistry
	addresses     repositories.AddressRepository
	payments      repositories.PaymentMethodProvider
	orders        repositories.OrderRepository
	notifications *NotificationService
	events        OrderEventPublisher
}

// NewCheckoutService creates a new CheckoutService. events may be nil.
func NewCheckoutService(registry *SessionRegistry, addresses repositories.AddressRepository, payments repositories.PaymentMethodProvider, orders repositories.OrderRepository, notifications *NotificationService, events OrderEventPublisher) *CheckoutService {
	return &CheckoutService{
		registry:      registry,
		addresses:     addresses,
		payments:      payments,
		orders:        orders,
		notifications: notifications,
		events:        events,
	}
}

// PaymentMethods lists the methods the user can pay with.
func (s *CheckoutService) PaymentMethods(userID string) ([]models.PaymentMethod, error) {
	return s.payments.List(userID)
}

// GetCheckout returns the checkout in progress.
func (s *CheckoutService) GetCheckout(userID string) (*CheckoutView, error) {
	return s.run(userID, func(*shop.Session) error { return nil })
}

// ApplyPromo applies a promo code to the checkout.
func (s *CheckoutService) ApplyPromo(userID, code string) (shop.PromoResult, *CheckoutView, error) {
	var res shop.PromoResult
	view, err := s.run(userID, func(sess *shop.Session) error {
		res = sess.ApplyPromoCode(code)
		return nil
	})
	return res, view, err
}

// SelectAddress picks the delivery address while reviewing.
func (s *CheckoutService) SelectAddress(userID, addressID string) (*CheckoutView, error) {
	if _, err := s.addresses.GetByID(userID, addressID); err != nil {
		return nil, err
	}
	return s.run(userID, func(sess *shop.Session) error {
		return sess.Checkout().SelectAddress(addressID)
	})
}

// Proceed moves the checkout to payment selection.
func (s *CheckoutService) Proceed(userID string) (*CheckoutView, error) {
	addresses, err := s.addresses.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.run(userID, func(sess *shop.Session) error {
		return sess.Proceed(addresses)
	})
}

// SelectPayment picks one of the user's payment methods.
func (s *CheckoutService) SelectPayment(userID, methodID string) (*CheckoutView, error) {
	methods, err := s.payments.List(userID)
	if err != nil {
		return nil, err
	}
	var method *models.PaymentMethod
	for i := range methods {
		if methods[i].ID == methodID {
			method = &methods[i]
			break
		}
	}
	if method == nil {
		return nil, fmt.Errorf("payment method %s: %w", methodID, repositories.ErrNotFound)
	}
	return s.run(userID, func(sess *shop.Session) error {
		return sess.Checkout().SelectPayment(*method)
	})
}

// Cancel returns the checkout to review.
func (s *CheckoutService) Cancel(userID string) (*CheckoutView, error) {
	return s.run(userID, func(sess *shop.Session) error {
		return sess.Checkout().Cancel()
	})
}

// Confirm places the order. The order is stored before the session changes
// and is the only write that can fail the checkout. The notification, the
// order event and the broadcast follow and only log on failure.
func (s *CheckoutService) Confirm(userID string) (*shop.CheckoutResult, error) {
	var res *shop.CheckoutResult
	err := s.registry.With(userID, func(sess *shop.Session) error {
		var err error
		res, err = sess.ConfirmPayment(func(o *models.Order, n *models.Notification) error {
			if err := s.orders.Create(o); err != nil {
				return err
			}
			if err := s.notifications.Store(n); err != nil {
				log.Printf("Warning: failed to store notification for order %s: %v", o.ID, err)
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s placed by user %s, total %d", res.Order.ID, userID, res.Order.Total)
	publishOrderEvent(s.events, models.OrderCreatedEvent, res.Order)
	s.notifications.Broadcast(*res.Notification)
	return res, nil
}

func (s *CheckoutService) run(userID string, fn func(*shop.Session) error) (*CheckoutView, error) {
	var view *CheckoutView
	err := s.registry.With(userID, func(sess *shop.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		view = viewCheckout(sess)
		return nil
	})
	return view, err
}

func publishOrderEvent(events OrderEventPublisher, kind string, o *models.Order) {
	if events == nil {
		log.Println("Order event publisher is not configured. Skipping message publication.")
		return
	}
	event := models.OrderEvent{
		Type:      kind,
		OrderID:   o.ID,
		UserID:    o.UserID,
		Status:    o.Status,
		Total:     o.Total,
		Items:     o.ItemCount(),
		Timestamp: o.UpdatedAt,
	}
	if err := events.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", kind, o.ID, err)
	}
}
