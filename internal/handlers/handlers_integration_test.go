package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"florist/internal/handlers"
	"florist/internal/models"
	"florist/internal/repositories"
	"florist/internal/services"
	"florist/internal/shop"
	"florist/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", "silent")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)

	authService := services.NewAuthService(
		repositories.NewGORMUserRepository(db),
		repositories.NewGORMSessionRepository(db),
		repositories.NewGORMOTPRepository(db),
		services.AuthConfig{
			JWTSecret:      "test_jwt_secret",
			TokenDuration:  time.Hour,
			OperatorEmails: []string{"ops@example.com"},
		},
	)
	registry := services.NewSessionRegistry(orderRepo, notificationRepo, shop.Options{DeliveryFee: 50000})
	notifications := services.NewNotificationService(registry, notificationRepo, nil)

	app := fiber.New()
	handlers.RegisterRoutes(app, handlers.Services{
		Auth:          authService,
		Products:      services.NewProductService(productRepo),
		Carts:         services.NewCartService(registry, productRepo),
		Addresses:     services.NewAddressService(addressRepo),
		Checkout:      services.NewCheckoutService(registry, addressRepo, repositories.NewStaticPaymentProvider(), orderRepo, notifications, nil),
		Orders:        services.NewOrderService(registry, orderRepo, notifications, nil),
		Notifications: notifications,
	})

	seedProductsForTest(t, productRepo)
	return app
}

// seedProductsForTest populates the product repository for tests.
func seedProductsForTest(t *testing.T, repo repositories.ProductRepository) {
	products := []models.Product{
		{Name: "Red Roses", Category: "bouquet", Price: 50000},
		{Name: "Tulips", Category: "bouquet", Price: 30000},
		{Name: "White Lilies", Category: "vase", Price: 45000},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

// do sends a request and decodes a JSON response into out when out is not nil.
func (c *client) do(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerAndLogin(t *testing.T, app *fiber.App, email string) *client {
	c := &client{t: t, app: app}
	status := c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Lan Nguyen",
		"email":    email,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var login map[string]interface{}
	status = c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	c.token, _ = login["token"].(string)
	require.NotEmpty(t, c.token)
	return c
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := setupApp(t)
	c := &client{t: t, app: app}

	user := map[string]string{"name": "Lan Nguyen", "email": "lan@example.com", "password": "password123"}
	var registerResp map[string]interface{}
	assert.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/auth/register", user, &registerResp))
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Duplicate email
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/v1/auth/register", user, nil))

	// Validation
	var invalid map[string]interface{}
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{"email": "nope"}, &invalid))
	assert.Equal(t, "Validation failed", invalid["message"])

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "lan@example.com", "password": "wrong-password",
	}, nil))

	authed := registerAndLogin(t, app, "mai@example.com")
	var profile struct {
		User    models.User        `json:"user"`
		Session models.UserSession `json:"session"`
	}
	assert.Equal(t, http.StatusOK, authed.do(http.MethodGet, "/api/v1/profile", nil, &profile))
	assert.Equal(t, "mai@example.com", profile.User.Email)
	assert.Empty(t, profile.User.Password)
	assert.True(t, profile.Session.LoggedIn)
	assert.False(t, profile.Session.OnboardingComplete)

	var session models.UserSession
	assert.Equal(t, http.StatusOK, authed.do(http.MethodPost, "/api/v1/profile/onboarding", nil, &session))
	assert.True(t, session.OnboardingComplete)

	// Logging out revokes the token
	assert.Equal(t, http.StatusOK, authed.do(http.MethodPost, "/api/v1/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, authed.do(http.MethodGet, "/api/v1/profile", nil, nil))
}

func TestProductEndpoints(t *testing.T) {
	app := setupApp(t)
	c := registerAndLogin(t, app, "lan@example.com")

	var products []models.Product
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/products", nil, &products))
	assert.Len(t, products, 3)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/products/search?category=vase", nil, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "White Lilies", products[0].Name)

	sunflowers := map[string]interface{}{"name": "Sunflowers", "category": "bouquet", "price": 65000}
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/v1/products", sunflowers, nil))
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, "/api/v1/products/1", nil, nil))

	ops := registerAndLogin(t, app, "ops@example.com")
	var created models.Product
	assert.Equal(t, http.StatusCreated, ops.do(http.MethodPost, "/api/v1/products", sunflowers, &created))
	assert.NotZero(t, created.ID)

	var updated models.Product
	path := "/api/v1/products/" + jsonID(created.ID)
	assert.Equal(t, http.StatusOK, ops.do(http.MethodPut, path, map[string]interface{}{
		"name": "Sunflowers XL", "category": "bouquet", "price": 90000,
	}, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Sunflowers XL", updated.Name)

	assert.Equal(t, http.StatusNoContent, ops.do(http.MethodDelete, path, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, path, nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/v1/products/abc", nil, nil))
}

func TestProductEndpointsWithoutAuth(t *testing.T) {
	app := setupApp(t)
	c := &client{t: t, app: app}

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/v1/products", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 1}, nil))
}

func TestCheckoutFlow(t *testing.T) {
	app := setupApp(t)
	c := registerAndLogin(t, app, "lan@example.com")

	var cart services.CartView
	for _, id := range []int{1, 1, 2} {
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": id}, &cart))
	}
	assert.Equal(t, int64(130000), cart.TotalPrice)
	assert.Equal(t, 3, cart.TotalItems)

	var failed map[string]interface{}
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/v1/checkout/proceed", nil, &failed))
	assert.Equal(t, "no_address", failed["code"])

	var address models.Address
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/addresses", map[string]string{
		"name": "Lan", "street": "12 Hoa Lan", "city": "Hanoi", "phone": "0900000001",
	}, &address))
	assert.True(t, address.IsDefault)

	var promo struct {
		Promo    shop.PromoResult      `json:"promo"`
		Checkout services.CheckoutView `json:"checkout"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/checkout/promo", map[string]string{"code": "save10"}, &promo))
	assert.True(t, promo.Promo.Recognized)
	assert.Equal(t, int64(13000), promo.Checkout.Quote.Discount)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/checkout/promo", map[string]string{"code": "XYZ"}, &promo))
	assert.False(t, promo.Promo.Recognized)
	assert.Equal(t, int64(180000), promo.Checkout.Quote.Total)

	var methods []models.PaymentMethod
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/payment-methods", nil, &methods))
	require.Len(t, methods, 5)
	assert.Equal(t, "cod", methods[0].ID)

	// Payment cannot be picked while reviewing
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/v1/checkout/payment", map[string]string{"payment_method_id": "cod"}, nil))

	var view services.CheckoutView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/checkout/proceed", nil, &view))
	assert.Equal(t, shop.StatePaymentSelection, view.State)
	assert.Equal(t, address.ID, view.Address.ID)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/v1/checkout/payment", map[string]string{"payment_method_id": "master-5454"}, &failed))
	assert.Equal(t, "payment_unavailable", failed["code"])
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/checkout/payment", map[string]string{"payment_method_id": "cod"}, &view))

	var result shop.CheckoutResult
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/checkout/confirm", nil, &result))
	assert.Equal(t, int64(180000), result.Order.Total)
	assert.Equal(t, models.StatusPending, result.Order.Status)
	assert.True(t, result.CartCleared)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/cart", nil, &cart))
	assert.Empty(t, cart.Items)

	var orders []models.Order
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/orders", nil, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, result.Order.ID, orders[0].ID)
	assert.Len(t, orders[0].Items, 2)

	var feed struct {
		Notifications []models.Notification `json:"notifications"`
		Unread        int                   `json:"unread"`
	}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/notifications", nil, &feed))
	require.Len(t, feed.Notifications, 2, "welcome and order placed")
	assert.Equal(t, 2, feed.Unread)
	assert.Equal(t, models.NotificationOrder, feed.Notifications[0].Type)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/v1/notifications/"+feed.Notifications[0].ID+"/read", nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/notifications", nil, &feed))
	assert.Equal(t, 1, feed.Unread)

	var cancelled models.Order
	orderPath := "/api/v1/orders/" + result.Order.ID
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, orderPath+"/cancel", nil, &cancelled))
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, orderPath+"/cancel", nil, &failed))
	assert.Equal(t, "invalid_transition", failed["code"])
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPatch, orderPath+"/status", map[string]string{"status": "shipped"}, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/orders/missing", nil, nil))

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/v1/notifications", nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/notifications", nil, &feed))
	assert.Empty(t, feed.Notifications)
}

func TestOrderStatusUpdates(t *testing.T) {
	app := setupApp(t)
	c := registerAndLogin(t, app, "lan@example.com")

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 3}, nil))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/addresses", map[string]string{
		"name": "Lan", "street": "12 Hoa Lan", "city": "Hanoi", "phone": "0900000001",
	}, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/checkout/proceed", nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/checkout/payment", map[string]string{"payment_method_id": "momo"}, nil))
	var result shop.CheckoutResult
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/checkout/confirm", nil, &result))

	statusPath := "/api/v1/orders/" + result.Order.ID + "/status"
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPatch, statusPath, map[string]string{"status": "shipping"}, nil))

	ops := registerAndLogin(t, app, "ops@example.com")
	assert.Equal(t, http.StatusBadRequest, ops.do(http.MethodPatch, statusPath, map[string]string{"status": "lost"}, nil))
	assert.Equal(t, http.StatusOK, ops.do(http.MethodPatch, statusPath, map[string]string{"status": "shipping"}, nil))
	assert.Equal(t, http.StatusConflict, ops.do(http.MethodPatch, statusPath, map[string]string{"status": "processing"}, nil))

	var order models.Order
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/orders/"+result.Order.ID, nil, &order))
	assert.Equal(t, models.StatusShipped, order.Status)

	var failed map[string]interface{}
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/v1/orders/"+result.Order.ID+"/cancel", nil, &failed))
	assert.Equal(t, "invalid_transition", failed["code"])
}

func TestCartValidation(t *testing.T) {
	app := setupApp(t)
	c := registerAndLogin(t, app, "lan@example.com")

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 42}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/cart/items", map[string]int{}, nil))

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 1}, nil))
	var failed map[string]interface{}
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/v1/cart/items/1", map[string]int{"quantity": -2}, &failed))
	assert.Equal(t, "invalid_quantity", failed["code"])

	var cart services.CartView
	assert.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/v1/cart/items/1", map[string]int{"quantity": 5}, &cart))
	assert.Equal(t, int64(250000), cart.TotalPrice)

	var fav map[string]interface{}
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/favorites/2/toggle", nil, &fav))
	assert.Equal(t, true, fav["favorite"])
	var favorites []models.Product
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/favorites", nil, &favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, "Tulips", favorites[0].Name)
}

func jsonID(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
