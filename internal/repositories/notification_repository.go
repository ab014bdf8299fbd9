package repositories

import (
	"fmt"
	"sort"
	"sync"

	"florist/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository persists notification feeds.
type NotificationRepository interface {
	// ListByUser returns the feed newest first.
	ListByUser(userID string) ([]models.Notification, error)
	Create(n *models.Notification) error
	MarkRead(userID, id string) error
	DeleteAllByUser(userID string) error
}

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{db: db}
}

func (r *GORMNotificationRepository) ListByUser(userID string) ([]models.Notification, error) {
	var list []models.Notification
	if err := r.db.Where("user_id = ?", userID).Order("sent_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (r *GORMNotificationRepository) Create(n *models.Notification) error {
	if err := r.db.Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// MarkRead flags one notification as read. A missing id is not an error.
func (r *GORMNotificationRepository) MarkRead(userID, id string) error {
	err := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return nil
}

func (r *GORMNotificationRepository) DeleteAllByUser(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

// MockNotificationRepository is an in-memory implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	mu    sync.RWMutex
	items map[string]models.Notification
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{items: make(map[string]models.Notification)}
}

func (r *MockNotificationRepository) ListByUser(userID string) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Notification, 0)
	for _, n := range r.items {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Time.After(list[j].Time) })
	return list, nil
}

func (r *MockNotificationRepository) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[n.ID] = *n
	return nil
}

func (r *MockNotificationRepository) MarkRead(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.items[id]; ok && n.UserID == userID {
		n.Read = true
		r.items[id] = n
	}
	return nil
}

func (r *MockNotificationRepository) DeleteAllByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.items {
		if n.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}
