package handlers

import (
	"florist/internal/middleware"
	"florist/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for the notification feed.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Get("/", h.HandleGetNotifications)
	notificationRoutes.Post("/:id/read", h.HandleMarkRead)
	notificationRoutes.Delete("/", h.HandleClearAll)
}

func (h *NotificationHandler) HandleGetNotifications(c *fiber.Ctx) error {
	list, unread, err := h.service.List(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not retrieve notifications", err)
	}
	return c.JSON(fiber.Map{
		"notifications": list,
		"unread":        unread,
	})
}

func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(middleware.UserID(c), c.Params("id")); err != nil {
		return fail(c, "Could not update notification", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) HandleClearAll(c *fiber.Ctx) error {
	if err := h.service.ClearAll(middleware.UserID(c)); err != nil {
		return fail(c, "Could not clear notifications", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
