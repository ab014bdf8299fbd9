package handlers

import (
	"florist/internal/middleware"
	"florist/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth          *services.AuthService
	Products      *services.ProductService
	Carts         *services.CartService
	Addresses     *services.AddressService
	Checkout      *services.CheckoutService
	Orders        *services.OrderService
	Notifications *services.NotificationService
}

// RegisterRoutes mounts the API under /api/v1. Authentication routes are
// public; everything else requires a session.
func RegisterRoutes(app *fiber.App, s Services) {
	apiV1 := app.Group("/api/v1")

	authHandler := NewAuthHandler(s.Auth, s.Notifications)
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(s.Auth))
	authHandler.RegisterProtectedRoutes(protected)
	NewProductHandler(s.Products).RegisterRoutes(protected)
	NewCartHandler(s.Carts).RegisterRoutes(protected)
	NewAddressHandler(s.Addresses).RegisterRoutes(protected)
	NewCheckoutHandler(s.Checkout).RegisterRoutes(protected)
	NewOrderHandler(s.Orders).RegisterRoutes(protected)
	NewNotificationHandler(s.Notifications).RegisterRoutes(protected)
}
