package shop

import "fmt"

// Error is a rejected operation with a machine-readable reason code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on the reason code so wrapped errors with extra detail still
// compare equal to the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidQuantity    = &Error{Code: "invalid_quantity", Message: "quantity must not be negative"}
	ErrEmptyCart          = &Error{Code: "empty_cart", Message: "cart is empty"}
	ErrNoAddress          = &Error{Code: "no_address", Message: "a shipping address is required"}
	ErrAddressNotFound    = &Error{Code: "address_not_found", Message: "address not found"}
	ErrNoPaymentMethod    = &Error{Code: "no_payment_method", Message: "a payment method must be selected"}
	ErrPaymentUnavailable = &Error{Code: "payment_unavailable", Message: "payment method is not usable"}
	ErrCheckoutState      = &Error{Code: "checkout_state", Message: "operation not allowed in the current checkout step"}
	ErrInvalidTransition  = &Error{Code: "invalid_transition", Message: "invalid order status transition"}
	ErrOrderNotFound      = &Error{Code: "order_not_found", Message: "order not found"}
)

func wrap(base *Error, format string, args ...interface{}) *Error {
	return &Error{Code: base.Code, Message: fmt.Sprintf("%s: %s", base.Message, fmt.Sprintf(format, args...))}
}
