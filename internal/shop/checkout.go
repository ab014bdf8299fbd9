package shop

import "florist/internal/models"

// CheckoutState is a step of the checkout flow.
type CheckoutState string

const (
	StateReviewing        CheckoutState = "reviewing"
	StatePaymentSelection CheckoutState = "payment-selection"
	StateConfirmed        CheckoutState = "confirmed"
)

// Quote is the priced view of a cart under the current checkout selections.
type Quote struct {
	Subtotal        int64  `json:"subtotal"`
	DeliveryFee     int64  `json:"delivery_fee"`
	Discount        int64  `json:"discount"`
	Total           int64  `json:"total"`
	PromoCode       string `json:"promo_code,omitempty"`
	PromoRecognized bool   `json:"promo_recognized"`
}

// Checkout turns a cart into a priced, addressed, payment-bound order
// proposal. It moves reviewing → payment-selection → confirmed; Cancel steps
// back from payment-selection to reviewing.
type Checkout struct {
	state       CheckoutState
	deliveryFee int64
	promos      PromoTable

	promoCode string
	promoRule *PromoRule
	addressID string
	address   *models.Address
	payment   *models.PaymentMethod
}

// NewCheckout starts a checkout in the reviewing state.
func NewCheckout(deliveryFee int64, promos PromoTable) *Checkout {
	if promos == nil {
		promos = DefaultPromoTable()
	}
	return &Checkout{state: StateReviewing, deliveryFee: deliveryFee, promos: promos}
}

func (c *Checkout) State() CheckoutState { return c.state }

// Address returns the address bound by Proceed, if any.
func (c *Checkout) Address() *models.Address { return c.address }

// Payment returns the selected payment method, if any.
func (c *Checkout) Payment() *models.PaymentMethod { return c.payment }

// SelectedAddressID is the address the user picked while reviewing.
func (c *Checkout) SelectedAddressID() string { return c.addressID }

// ApplyPromoCode records code for the checkout, replacing any earlier one.
// Unknown codes resolve to no discount. An empty code removes the promo.
func (c *Checkout) ApplyPromoCode(code string, subtotal int64) PromoResult {
	code = NormalizeCode(code)
	c.promoCode = code
	c.promoRule = nil
	if code == "" {
		return PromoResult{}
	}
	rule, ok := c.promos.Lookup(code)
	if !ok {
		return PromoResult{Code: code}
	}
	c.promoRule = &rule
	return PromoResult{Code: code, Recognized: true, Discount: rule.Discount(subtotal)}
}

// Discount is the promo discount against subtotal.
func (c *Checkout) Discount(subtotal int64) int64 {
	if c.promoRule == nil {
		return 0
	}
	return c.promoRule.Discount(subtotal)
}

// Quote prices cart with the current promo and delivery fee.
func (c *Checkout) Quote(cart *Cart) Quote {
	subtotal := cart.TotalPrice()
	discount := c.Discount(subtotal)
	return Quote{
		Subtotal:        subtotal,
		DeliveryFee:     c.deliveryFee,
		Discount:        discount,
		Total:           subtotal + c.deliveryFee - discount,
		PromoCode:       c.promoCode,
		PromoRecognized: c.promoRule != nil,
	}
}

// SelectAddress picks the shipping address while reviewing.
func (c *Checkout) SelectAddress(id string) error {
	if c.state != StateReviewing {
		return wrap(ErrCheckoutState, "cannot change address while %s", c.state)
	}
	c.addressID = id
	return nil
}

// Proceed moves to payment selection. It needs a non-empty cart and at least
// one address; the bound address is the explicit selection, else the
// default, else the first in the list.
func (c *Checkout) Proceed(cart *Cart, addresses []models.Address) error {
	if c.state != StateReviewing {
		return wrap(ErrCheckoutState, "cannot proceed from %s", c.state)
	}
	if cart.Len() == 0 {
		return ErrEmptyCart
	}
	if len(addresses) == 0 {
		return ErrNoAddress
	}
	addr, err := resolveAddress(c.addressID, addresses)
	if err != nil {
		return err
	}
	c.address = &addr
	c.state = StatePaymentSelection
	return nil
}

func resolveAddress(id string, addresses []models.Address) (models.Address, error) {
	if id != "" {
		for _, a := range addresses {
			if a.ID == id {
				return a, nil
			}
		}
		return models.Address{}, wrap(ErrAddressNotFound, "%s", id)
	}
	for _, a := range addresses {
		if a.IsDefault {
			return a, nil
		}
	}
	return addresses[0], nil
}

// SelectPayment binds a payment method. Only allowed during payment selection.
func (c *Checkout) SelectPayment(method models.PaymentMethod) error {
	if c.state != StatePaymentSelection {
		return wrap(ErrCheckoutState, "cannot select payment while %s", c.state)
	}
	if !method.Usable() {
		return wrap(ErrPaymentUnavailable, "%s is %s", method.ID, method.Status)
	}
	c.payment = &method
	return nil
}

// Cancel abandons payment selection and returns to reviewing.
func (c *Checkout) Cancel() error {
	if c.state != StatePaymentSelection {
		return wrap(ErrCheckoutState, "cannot cancel from %s", c.state)
	}
	c.state = StateReviewing
	c.payment = nil
	c.address = nil
	return nil
}

// ready checks the confirm preconditions without changing state.
func (c *Checkout) ready() error {
	if c.state != StatePaymentSelection {
		return wrap(ErrCheckoutState, "cannot confirm from %s", c.state)
	}
	if c.payment == nil {
		return ErrNoPaymentMethod
	}
	return nil
}

func (c *Checkout) confirm() {
	c.state = StateConfirmed
}
