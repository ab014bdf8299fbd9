package handlers

import (
	"florist/internal/middleware"
	"florist/internal/models"
	"florist/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for the address book.
type AddressHandler struct {
	service  *services.AddressService
	validate *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the address routes.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleGetAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Put("/:id", h.HandleUpdateAddress)
	addressRoutes.Delete("/:id", h.HandleDeleteAddress)
}

func (h *AddressHandler) HandleGetAddresses(c *fiber.Ctx) error {
	list, err := h.service.ListAddresses(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not retrieve addresses", err)
	}
	return c.JSON(list)
}

func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := parseBody(c, h.validate, &address); err != nil {
		return fail(c, "Could not save address", err)
	}
	if err := h.service.CreateAddress(middleware.UserID(c), &address); err != nil {
		return fail(c, "Could not save address", err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

func (h *AddressHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := parseBody(c, h.validate, &address); err != nil {
		return fail(c, "Could not save address", err)
	}
	if err := h.service.UpdateAddress(middleware.UserID(c), c.Params("id"), &address); err != nil {
		return fail(c, "Could not save address", err)
	}
	return c.JSON(address)
}

func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	if err := h.service.DeleteAddress(middleware.UserID(c), c.Params("id")); err != nil {
		return fail(c, "Could not delete address", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
