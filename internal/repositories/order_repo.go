package repositories

import (
	"florist/internal/models"
)

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// ListForUser returns the user's orders, most recent first.
	ListForUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	// UpdateStatus moves the order from status from to status to. It fails
	// with ErrStaleStatus when the stored status is no longer from.
	UpdateStatus(id string, from, to models.OrderStatus) error
}
