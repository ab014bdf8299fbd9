package services_test

import (
	"fmt"
	"testing"
	"time"

	"florist/internal/models"
	"florist/internal/repositories"
	"florist/internal/services"
	"florist/internal/shop"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	roses  = models.Product{Name: "Red Roses", Price: 50000, Category: "bouquet"}
	tulips = models.Product{Name: "Tulips", Price: 30000, Category: "bouquet"}
	lilies = models.Product{Name: "White Lilies", Price: 45000, Category: "vase"}
)

type storefront struct {
	products  *repositories.MockProductRepository
	orders    *repositories.MockOrderRepository
	notes     *repositories.MockNotificationRepository
	addresses *repositories.MockAddressRepository

	registry      *services.SessionRegistry
	notifications *services.NotificationService
	carts         *services.CartService
	addressBook   *services.AddressService
	checkout      *services.CheckoutService
	orderService  *services.OrderService

	events *MockEventPublisher
	bus    *MockNotificationPublisher
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	s := &storefront{
		products:  repositories.NewMockProductRepository(),
		orders:    repositories.NewMockOrderRepository(),
		notes:     repositories.NewMockNotificationRepository(),
		addresses: repositories.NewMockAddressRepository(),
		events:    new(MockEventPublisher),
		bus:       new(MockNotificationPublisher),
	}
	s.events.On("PublishOrderEvent", mock.Anything).Return(nil).Maybe()
	s.bus.On("PublishNotification", mock.Anything).Return(nil).Maybe()
	for _, p := range []models.Product{roses, tulips, lilies} {
		p := p
		require.NoError(t, s.products.Create(&p))
	}

	n := 0
	clock := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	s.registry = services.NewSessionRegistry(s.orders, s.notes, shop.Options{
		DeliveryFee: 50000,
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%04d", n)
		},
	})
	s.notifications = services.NewNotificationService(s.registry, s.notes, s.bus)
	s.carts = services.NewCartService(s.registry, s.products)
	s.addressBook = services.NewAddressService(s.addresses)
	s.checkout = services.NewCheckoutService(s.registry, s.addresses, repositories.NewStaticPaymentProvider(), s.orders, s.notifications, s.events)
	s.orderService = services.NewOrderService(s.registry, s.orders, s.notifications, s.events)
	return s
}

// placeOrder fills the cart with two roses and one tulip and confirms with
// cash on delivery.
func (s *storefront) placeOrder(t *testing.T, userID string) *shop.CheckoutResult {
	t.Helper()
	_, err := s.carts.AddToCart(userID, 1)
	require.NoError(t, err)
	_, err = s.carts.AddToCart(userID, 1)
	require.NoError(t, err)
	_, err = s.carts.AddToCart(userID, 2)
	require.NoError(t, err)

	if list, _ := s.addresses.ListByUser(userID); len(list) == 0 {
		require.NoError(t, s.addressBook.CreateAddress(userID, &models.Address{Name: "Lan", Street: "12 Hoa Lan", City: "Hanoi", Phone: "0900000001"}))
	}
	_, err = s.checkout.Proceed(userID)
	require.NoError(t, err)
	_, err = s.checkout.SelectPayment(userID, "cod")
	require.NoError(t, err)

	res, err := s.checkout.Confirm(userID)
	require.NoError(t, err)
	return res
}

// peer returns the order service of a second process that shares the stores
// but has its own sessions.
func (s *storefront) peer() *services.OrderService {
	registry := services.NewSessionRegistry(s.orders, s.notes, shop.Options{DeliveryFee: 50000})
	notifications := services.NewNotificationService(registry, s.notes, s.bus)
	return services.NewOrderService(registry, s.orders, notifications, s.events)
}
