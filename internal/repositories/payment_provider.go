package repositories

import "florist/internal/models"

// PaymentMethodProvider lists the payment methods a user can choose from.
type PaymentMethodProvider interface {
	List(userID string) ([]models.PaymentMethod, error)
}

// StaticPaymentProvider serves a fixed list to every user.
type StaticPaymentProvider struct {
	methods []models.PaymentMethod
}

// NewStaticPaymentProvider returns a provider over methods, or the store
// defaults when methods is empty.
func NewStaticPaymentProvider(methods ...models.PaymentMethod) *StaticPaymentProvider {
	if len(methods) == 0 {
		methods = DefaultPaymentMethods()
	}
	return &StaticPaymentProvider{methods: methods}
}

func (p *StaticPaymentProvider) List(string) ([]models.PaymentMethod, error) {
	out := make([]models.PaymentMethod, len(p.methods))
	copy(out, p.methods)
	return out, nil
}

// DefaultPaymentMethods is the list offered at checkout.
func DefaultPaymentMethods() []models.PaymentMethod {
	return []models.PaymentMethod{
		{ID: "cod", Type: models.PaymentCOD, Provider: "Cash on delivery", IsDefault: true, Status: models.PaymentActive},
		{ID: "momo", Type: models.PaymentMomo, Provider: "MoMo", IsFavorite: true, Status: models.PaymentActive},
		{ID: "bank", Type: models.PaymentBank, Provider: "Vietcombank", Last4: "6789", Status: models.PaymentActive},
		{ID: "visa-4242", Type: models.PaymentCard, Provider: "Visa", Last4: "4242", Expiry: "12/27", Status: models.PaymentExpiring},
		{ID: "master-5454", Type: models.PaymentCard, Provider: "Mastercard", Last4: "5454", Expiry: "03/24", Status: models.PaymentExpired},
	}
}
