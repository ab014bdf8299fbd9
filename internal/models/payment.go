package models

// PaymentType enumerates the supported ways to pay.
type PaymentType string

const (
	PaymentCOD  PaymentType = "cod"
	PaymentMomo PaymentType = "momo"
	PaymentBank PaymentType = "bank"
	PaymentCard PaymentType = "card"
)

// PaymentStatus is the health of a stored payment method.
type PaymentStatus string

const (
	PaymentActive   PaymentStatus = "active"
	PaymentExpiring PaymentStatus = "expiring"
	PaymentExpired  PaymentStatus = "expired"
)

// PaymentMethod describes one way the user can pay for an order.
type PaymentMethod struct {
	ID         string        `json:"id"`
	Type       PaymentType   `json:"type"`
	Provider   string        `json:"provider,omitempty"`
	Last4      string        `json:"last4,omitempty"`
	Expiry     string        `json:"expiry,omitempty"`
	IsDefault  bool          `json:"is_default"`
	IsFavorite bool          `json:"is_favorite"`
	Status     PaymentStatus `json:"status"`
}

// Usable reports whether the method can be selected at checkout.
func (p PaymentMethod) Usable() bool {
	return p.Status != PaymentExpired
}
