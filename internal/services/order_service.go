package services

import (
	"errors"
	"fmt"
	"log"

	"florist/internal/models"
	"florist/internal/repositories"
	"florist/internal/shop"
)

// ErrInvalidStatus is returned for a status name outside the lifecycle.
var ErrInvalidStatus = errors.New("invalid order status")

const maxTransitionAttempts = 3

// OrderService handles order history, customer cancellation and status
// changes driven by fulfilment.
type OrderService struct {
	registry      *SessionRegistry
	orderRepo     repositories.OrderRepository
	notifications *NotificationService
	events        OrderEventPublisher
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(registry *SessionRegistry, orderRepo repositories.OrderRepository, notifications *NotificationService, events OrderEventPublisher) *OrderService {
	return &OrderService{
		registry:      registry,
		orderRepo:     orderRepo,
		notifications: notifications,
		events:        events,
	}
}

// ListOrders returns the user's orders, most recent first.
func (s *OrderService) ListOrders(userID string) ([]models.Order, error) {
	var list []models.Order
	err := s.registry.With(userID, func(sess *shop.Session) error {
		list = sess.Orders.List()
		return nil
	})
	return list, err
}

// GetOrder returns one of the user's orders.
func (s *OrderService) GetOrder(userID, id string) (*models.Order, error) {
	var order *models.Order
	err := s.registry.With(userID, func(sess *shop.Session) error {
		o, ok := sess.Orders.Find(id)
		if !ok {
			return fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
		}
		order = &o
		return nil
	})
	return order, err
}

// CancelOrder cancels a pending or processing order on behalf of its owner.
// The check runs against the stored order, not the session copy.
func (s *OrderService) CancelOrder(userID, id string) (*models.Order, error) {
	var cancelled *models.Order
	err := s.registry.With(userID, func(sess *shop.Session) error {
		order, err := s.transition(id, func(o *models.Order) error {
			if o.UserID != userID {
				return fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
			}
			return shop.CheckCancel(o)
		}, models.StatusCancelled)
		if order != nil && order.UserID == userID {
			sess.Orders.Replace(*order)
		}
		cancelled = order
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announce(cancelled, models.OrderCancelledEvent)
	return cancelled, nil
}

// AdvanceStatus moves an order forward in its lifecycle, or cancels it.
func (s *OrderService) AdvanceStatus(orderID, status string) (*models.Order, error) {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("'%s': %w", status, ErrInvalidStatus)
	}

	order, err := s.transition(orderID, func(o *models.Order) error {
		return shop.CheckAdvance(o, next)
	}, next)
	if order != nil {
		latest := *order
		s.registry.WithLoaded(order.UserID, func(sess *shop.Session) {
			sess.Orders.Replace(latest)
		})
	}
	if err != nil {
		return nil, err
	}

	kind := models.OrderStatusChangedEvent
	if next == models.StatusCancelled {
		kind = models.OrderCancelledEvent
	}
	s.announce(order, kind)
	return order, nil
}

// transition reads the stored order, validates it with check and writes next
// only if the status is still the one that was checked. A concurrent change
// causes a re-read. The returned order is the latest known copy, also when
// check rejects it.
func (s *OrderService) transition(id string, check func(*models.Order) error, next models.OrderStatus) (*models.Order, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		order, err := s.orderRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if err := check(order); err != nil {
			return order, err
		}
		err = s.orderRepo.UpdateStatus(id, order.Status, next)
		if errors.Is(err, repositories.ErrStaleStatus) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
		}
		order.Status = next
		order.UpdatedAt = s.registry.Now()
		return order, nil
	}
	return nil, fmt.Errorf("order %s: %w", id, repositories.ErrStaleStatus)
}

// HandleStatusUpdate applies a status update received from the broker.
// Updates that can never succeed are logged and dropped.
func (s *OrderService) HandleStatusUpdate(u models.StatusUpdate) error {
	_, err := s.AdvanceStatus(u.OrderID, u.Status)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, shop.ErrInvalidTransition),
		errors.Is(err, repositories.ErrNotFound):
		log.Printf("Dropping status update %s -> %s: %v", u.OrderID, u.Status, err)
		return nil
	default:
		return err
	}
}

func (s *OrderService) announce(o *models.Order, kind string) {
	note := shop.NewStatusNotification(o, s.registry.NewID(), s.registry.Now())
	if err := s.notifications.Deliver(note); err != nil {
		log.Printf("Warning: failed to store notification for order %s: %v", o.ID, err)
	}
	publishOrderEvent(s.events, kind, o)
}
