package handlers

import (
	"florist/internal/middleware"
	"florist/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart and favorites.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart and favorites routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)

	favoriteRoutes := router.Group("/favorites")
	favoriteRoutes.Get("/", h.HandleGetFavorites)
	favoriteRoutes.Post("/:id/toggle", h.HandleToggleFavorite)
}

// AddItemRequest adds one unit of a product to the cart.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// UpdateItemRequest sets the quantity of a cart line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// HandleGetCart returns the cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not retrieve cart", err)
	}
	return c.JSON(cart)
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Could not add to cart", err)
	}
	cart, err := h.service.AddToCart(middleware.UserID(c), req.ProductID)
	if err != nil {
		return fail(c, "Could not add to cart", err)
	}
	return c.JSON(cart)
}

// HandleUpdateItem changes the quantity of a line. Zero removes it.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	id, err := productIDParam(c, "id")
	if err != nil {
		return fail(c, "Could not update cart", err)
	}
	var req UpdateItemRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Could not update cart", err)
	}
	cart, err := h.service.UpdateQuantity(middleware.UserID(c), id, *req.Quantity)
	if err != nil {
		return fail(c, "Could not update cart", err)
	}
	return c.JSON(cart)
}

// HandleRemoveItem drops a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, err := productIDParam(c, "id")
	if err != nil {
		return fail(c, "Could not update cart", err)
	}
	cart, err := h.service.RemoveItem(middleware.UserID(c), id)
	if err != nil {
		return fail(c, "Could not update cart", err)
	}
	return c.JSON(cart)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cart, err := h.service.ClearCart(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not clear cart", err)
	}
	return c.JSON(cart)
}

// HandleGetFavorites lists the favorited products.
func (h *CartHandler) HandleGetFavorites(c *fiber.Ctx) error {
	products, err := h.service.ListFavorites(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not retrieve favorites", err)
	}
	return c.JSON(products)
}

// HandleToggleFavorite flips the favorite flag of a product.
func (h *CartHandler) HandleToggleFavorite(c *fiber.Ctx) error {
	id, err := productIDParam(c, "id")
	if err != nil {
		return fail(c, "Could not update favorites", err)
	}
	on, err := h.service.ToggleFavorite(middleware.UserID(c), id)
	if err != nil {
		return fail(c, "Could not update favorites", err)
	}
	return c.JSON(fiber.Map{
		"product_id": id,
		"favorite":   on,
	})
}
