package shop

import (
	"time"

	"github.com/google/uuid"

	"florist/internal/models"
)

// CheckoutResult carries every effect of a confirmed checkout.
type CheckoutResult struct {
	Order        *models.Order        `json:"order"`
	CartCleared  bool                 `json:"cart_cleared"`
	Notification *models.Notification `json:"notification"`
}

// Options configures a Session.
type Options struct {
	DeliveryFee int64
	Promos      PromoTable
	Now         func() time.Time
	NewID       func() string
}

// Session is the shopping state of one user: cart, favorites, the current
// checkout, order history and notification feed. It is not safe for
// concurrent use.
type Session struct {
	UserID    string
	Cart      Cart
	Favorites Favorites
	Orders    OrderHistory
	Feed      Feed

	checkout *Checkout
	opts     Options
}

// NewSession creates an empty session for userID.
func NewSession(userID string, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Promos == nil {
		opts.Promos = DefaultPromoTable()
	}
	return &Session{UserID: userID, opts: opts}
}

// Checkout returns the checkout in progress. A new one is started when there
// is none or the previous one was confirmed.
func (s *Session) Checkout() *Checkout {
	if s.checkout == nil || s.checkout.State() == StateConfirmed {
		s.checkout = NewCheckout(s.opts.DeliveryFee, s.opts.Promos)
	}
	return s.checkout
}

// ApplyPromoCode applies code to the current checkout against the cart.
func (s *Session) ApplyPromoCode(code string) PromoResult {
	return s.Checkout().ApplyPromoCode(code, s.Cart.TotalPrice())
}

// Quote prices the cart under the current checkout.
func (s *Session) Quote() Quote {
	return s.Checkout().Quote(&s.Cart)
}

// Proceed advances the checkout to payment selection.
func (s *Session) Proceed(addresses []models.Address) error {
	return s.Checkout().Proceed(&s.Cart, addresses)
}

// ConfirmPayment turns the checkout into an order. persist is called with
// the new order and its notification before any local state changes; if it
// fails the session is left untouched. On success the order is prepended to
// the history, the cart is cleared, the notification is pushed and the
// checkout becomes confirmed.
func (s *Session) ConfirmPayment(persist func(*models.Order, *models.Notification) error) (*CheckoutResult, error) {
	co := s.Checkout()
	if err := co.ready(); err != nil {
		return nil, err
	}
	if s.Cart.Len() == 0 {
		return nil, ErrEmptyCart
	}

	now := s.opts.Now()
	order := CreateOrder(OrderDraft{
		UserID:  s.UserID,
		Items:   s.Cart.Items(),
		Address: *co.Address(),
		Payment: *co.Payment(),
		Quote:   co.Quote(&s.Cart),
	}, s.opts.NewID(), now)
	note := NewOrderNotification(order, s.opts.NewID(), now)

	if persist != nil {
		if err := persist(order, &note); err != nil {
			return nil, err
		}
	}

	s.Orders.Prepend(order)
	s.Cart.Clear()
	s.Feed.Push(note)
	co.confirm()

	snapshot := *order
	return &CheckoutResult{Order: &snapshot, CartCleared: true, Notification: &note}, nil
}

// CancelOrder cancels one of the user's orders.
func (s *Session) CancelOrder(id string) (models.Order, error) {
	return s.Orders.Cancel(id, s.opts.Now())
}

// Now returns the session clock.
func (s *Session) Now() time.Time { return s.opts.Now() }

// NewID returns a fresh identifier from the session generator.
func (s *Session) NewID() string { return s.opts.NewID() }
