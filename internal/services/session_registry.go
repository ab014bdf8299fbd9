package services

import (
	"fmt"
	"sync"
	"time"

	"florist/internal/repositories"
	"florist/internal/shop"

	"github.com/google/uuid"
)

type sessionEntry struct {
	mu      sync.Mutex
	session *shop.Session
	loaded  bool
}

// SessionRegistry keeps one shop.Session per user. Sessions are created on
// first use and hydrated with the stored order history and notifications.
// Access to a session is serialized by its own lock.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry

	orders        repositories.OrderRepository
	notifications repositories.NotificationRepository
	opts          shop.Options
}

// NewSessionRegistry creates a registry whose sessions use opts.
func NewSessionRegistry(orders repositories.OrderRepository, notifications repositories.NotificationRepository, opts shop.Options) *SessionRegistry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &SessionRegistry{
		sessions:      make(map[string]*sessionEntry),
		orders:        orders,
		notifications: notifications,
		opts:          opts,
	}
}

// Now is the clock shared by every session.
func (r *SessionRegistry) Now() time.Time { return r.opts.Now() }

// NewID returns a fresh identifier from the shared generator.
func (r *SessionRegistry) NewID() string { return r.opts.NewID() }

func (r *SessionRegistry) entry(userID string, create bool) *sessionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[userID]
	if !ok && create {
		e = &sessionEntry{session: shop.NewSession(userID, r.opts)}
		r.sessions[userID] = e
	}
	return e
}

// With runs fn on the user's session, loading it first when needed.
func (r *SessionRegistry) With(userID string, fn func(*shop.Session) error) error {
	e := r.entry(userID, true)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		if err := r.hydrate(e.session); err != nil {
			return err
		}
		e.loaded = true
	}
	return fn(e.session)
}

// WithLoaded runs fn only when the user's session is already in memory and
// reports whether it did.
func (r *SessionRegistry) WithLoaded(userID string, fn func(*shop.Session)) bool {
	e := r.entry(userID, false)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return false
	}
	fn(e.session)
	return true
}

// Drop forgets the user's in-memory session. The next access reloads it.
func (r *SessionRegistry) Drop(userID string) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}

func (r *SessionRegistry) hydrate(s *shop.Session) error {
	if r.orders != nil {
		orders, err := r.orders.ListForUser(s.UserID)
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		s.Orders.Load(orders)
	}
	if r.notifications != nil {
		notes, err := r.notifications.ListByUser(s.UserID)
		if err != nil {
			return fmt.Errorf("failed to load notifications: %w", err)
		}
		s.Feed.Merge(notes...)
	}
	return nil
}
