package handlers

import (
	"florist/internal/middleware"
	"florist/internal/models"
	"florist/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	operatorOnly := middleware.RequireRole(models.RoleOperator)
	productRoutes.Post("/", operatorOnly, h.HandleCreateProduct)
	productRoutes.Put("/:id", operatorOnly, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", operatorOnly, h.HandleDeleteProduct)
}

// HandleGetProducts lists the catalog, optionally filtered by ?q= and
// ?category=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.Query("q"), c.Query("category"))
	if err != nil {
		return fail(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productIDParam(c, "id")
	if err != nil {
		return fail(c, "Could not retrieve product", err)
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return fail(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := parseBody(c, h.validate, &product); err != nil {
		return fail(c, "Could not create product", err)
	}
	product.ID = 0
	if err := h.service.CreateProduct(&product); err != nil {
		return fail(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productIDParam(c, "id")
	if err != nil {
		return fail(c, "Could not update product", err)
	}
	var product models.Product
	if err := parseBody(c, h.validate, &product); err != nil {
		return fail(c, "Could not update product", err)
	}
	product.ID = id
	if err := h.service.UpdateProduct(&product); err != nil {
		return fail(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productIDParam(c, "id")
	if err != nil {
		return fail(c, "Could not delete product", err)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return fail(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
