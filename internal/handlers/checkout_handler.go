package handlers

import (
	"florist/internal/middleware"
	"florist/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	service  *services.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the checkout and payment method routes.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/payment-methods", h.HandleGetPaymentMethods)

	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/", h.HandleGetCheckout)
	checkoutRoutes.Post("/promo", h.HandleApplyPromo)
	checkoutRoutes.Post("/address", h.HandleSelectAddress)
	checkoutRoutes.Post("/proceed", h.HandleProceed)
	checkoutRoutes.Post("/payment", h.HandleSelectPayment)
	checkoutRoutes.Post("/cancel", h.HandleCancel)
	checkoutRoutes.Post("/confirm", h.HandleConfirm)
}

// PromoRequest carries a promo code. An empty code removes the promo.
type PromoRequest struct {
	Code string `json:"code" validate:"max=32"`
}

// SelectAddressRequest picks the delivery address.
type SelectAddressRequest struct {
	AddressID string `json:"address_id" validate:"required"`
}

// SelectPaymentRequest picks the payment method.
type SelectPaymentRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}

func (h *CheckoutHandler) HandleGetPaymentMethods(c *fiber.Ctx) error {
	methods, err := h.service.PaymentMethods(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not retrieve payment methods", err)
	}
	return c.JSON(methods)
}

func (h *CheckoutHandler) HandleGetCheckout(c *fiber.Ctx) error {
	view, err := h.service.GetCheckout(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not retrieve checkout", err)
	}
	return c.JSON(view)
}

func (h *CheckoutHandler) HandleApplyPromo(c *fiber.Ctx) error {
	var req PromoRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Could not apply promo code", err)
	}
	res, view, err := h.service.ApplyPromo(middleware.UserID(c), req.Code)
	if err != nil {
		return fail(c, "Could not apply promo code", err)
	}
	return c.JSON(fiber.Map{
		"promo":    res,
		"checkout": view,
	})
}

func (h *CheckoutHandler) HandleSelectAddress(c *fiber.Ctx) error {
	var req SelectAddressRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Could not select address", err)
	}
	view, err := h.service.SelectAddress(middleware.UserID(c), req.AddressID)
	if err != nil {
		return fail(c, "Could not select address", err)
	}
	return c.JSON(view)
}

func (h *CheckoutHandler) HandleProceed(c *fiber.Ctx) error {
	view, err := h.service.Proceed(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not proceed to payment", err)
	}
	return c.JSON(view)
}

func (h *CheckoutHandler) HandleSelectPayment(c *fiber.Ctx) error {
	var req SelectPaymentRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Could not select payment method", err)
	}
	view, err := h.service.SelectPayment(middleware.UserID(c), req.PaymentMethodID)
	if err != nil {
		return fail(c, "Could not select payment method", err)
	}
	return c.JSON(view)
}

func (h *CheckoutHandler) HandleCancel(c *fiber.Ctx) error {
	view, err := h.service.Cancel(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not cancel payment", err)
	}
	return c.JSON(view)
}

// HandleConfirm places the order.
func (h *CheckoutHandler) HandleConfirm(c *fiber.Ctx) error {
	res, err := h.service.Confirm(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not place order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
