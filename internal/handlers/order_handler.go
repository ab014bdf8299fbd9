package handlers

import (
	"florist/internal/middleware"
	"florist/internal/models"
	"florist/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	// Fulfilment normally drives this through the status queue.
	orderRoutes.Patch("/:id/status", middleware.RequireRole(models.RoleOperator), h.HandleUpdateOrderStatus)
}

// HandleGetOrders lists the user's orders, most recent first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels a pending or processing order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.CancelOrder(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, "Could not cancel order", err)
	}
	return c.JSON(order)
}

// StatusRequest carries the new order status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus applies a fulfilment status change.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Could not update order status", err)
	}
	order, err := h.service.AdvanceStatus(c.Params("id"), req.Status)
	if err != nil {
		return fail(c, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"order":   order,
	})
}
