package services

import (
	"log"

	"florist/internal/models"
	"florist/internal/repositories"
	"florist/internal/shop"
)

// NotificationPublisher fans notifications out to other instances.
type NotificationPublisher interface {
	PublishNotification(n models.Notification) error
}

// NotificationService manages the per-user notification feed.
type NotificationService struct {
	registry *SessionRegistry
	repo     repositories.NotificationRepository
	bus      NotificationPublisher
}

// NewNotificationService creates a new NotificationService. bus may be nil.
func NewNotificationService(registry *SessionRegistry, repo repositories.NotificationRepository, bus NotificationPublisher) *NotificationService {
	return &NotificationService{registry: registry, repo: repo, bus: bus}
}

// List returns the feed, newest first, and the number of unread entries.
func (s *NotificationService) List(userID string) ([]models.Notification, int, error) {
	var (
		list   []models.Notification
		unread int
	)
	err := s.registry.With(userID, func(sess *shop.Session) error {
		list = sess.Feed.List()
		unread = sess.Feed.UnreadCount()
		return nil
	})
	return list, unread, err
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(userID, id string) error {
	return s.registry.With(userID, func(sess *shop.Session) error {
		if err := s.repo.MarkRead(userID, id); err != nil {
			return err
		}
		sess.Feed.MarkRead(id)
		return nil
	})
}

// ClearAll empties the user's feed.
func (s *NotificationService) ClearAll(userID string) error {
	return s.registry.With(userID, func(sess *shop.Session) error {
		if err := s.repo.DeleteAllByUser(userID); err != nil {
			return err
		}
		sess.Feed.ClearAll()
		return nil
	})
}

// Store persists n without touching any session.
func (s *NotificationService) Store(n *models.Notification) error {
	return s.repo.Create(n)
}

// Broadcast publishes n to other instances. Failures are logged.
func (s *NotificationService) Broadcast(n models.Notification) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishNotification(n); err != nil {
		log.Printf("Warning: failed to publish notification %s: %v", n.ID, err)
	}
}

// Deliver stores n, pushes it into the user's session when loaded and
// broadcasts it.
func (s *NotificationService) Deliver(n models.Notification) error {
	if err := s.Store(&n); err != nil {
		return err
	}
	s.registry.WithLoaded(n.UserID, func(sess *shop.Session) {
		sess.Feed.Merge(n)
	})
	s.Broadcast(n)
	return nil
}

// Welcome greets a newly registered user with a promotion.
func (s *NotificationService) Welcome(userID string) error {
	return s.Deliver(models.Notification{
		ID:      s.registry.NewID(),
		UserID:  userID,
		Type:    models.NotificationPromotion,
		Title:   "Welcome to Florist",
		Message: "Use code FLOWER20 at checkout for 20% off your first bouquet.",
		Time:    s.registry.Now(),
	})
}

// MergeRemote applies a notification published by another instance. It is
// ignored when the user's session is not loaded here.
func (s *NotificationService) MergeRemote(n models.Notification) {
	s.registry.WithLoaded(n.UserID, func(sess *shop.Session) {
		if added := sess.Feed.Merge(n); added > 0 {
			log.Printf("Merged remote notification %s for user %s", n.ID, n.UserID)
		}
	})
}
