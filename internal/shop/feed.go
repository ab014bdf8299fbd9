package shop

import (
	"fmt"
	"sort"
	"time"

	"florist/internal/models"
)

// Feed is a user's notification list, most recent first.
type Feed struct {
	items []models.Notification
}

// Push prepends n as unread.
func (f *Feed) Push(n models.Notification) {
	n.Read = false
	f.items = append([]models.Notification{n}, f.items...)
}

// MarkRead flags the entry with id as read. It returns false when no such
// entry exists.
func (f *Feed) MarkRead(id string) bool {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return true
		}
	}
	return false
}

// ClearAll empties the feed.
func (f *Feed) ClearAll() {
	f.items = nil
}

// List returns a copy of the feed.
func (f *Feed) List() []models.Notification {
	out := make([]models.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// UnreadCount is the number of unread notifications.
func (f *Feed) UnreadCount() int {
	n := 0
	for _, it := range f.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// Merge folds in entries that arrived from another device or the remote
// store. Entries whose id is already present are ignored. It returns the
// number of entries added.
func (f *Feed) Merge(incoming ...models.Notification) int {
	seen := make(map[string]struct{}, len(f.items))
	for _, it := range f.items {
		seen[it.ID] = struct{}{}
	}
	added := 0
	for _, n := range incoming {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		f.items = append(f.items, n)
		added++
	}
	if added > 0 {
		sort.SliceStable(f.items, func(i, j int) bool {
			return f.items[i].Time.After(f.items[j].Time)
		})
	}
	return added
}

// NewOrderNotification builds the feed entry announcing a new order.
func NewOrderNotification(o *models.Order, id string, now time.Time) models.Notification {
	return models.Notification{
		ID:      id,
		UserID:  o.UserID,
		Type:    models.NotificationOrder,
		Title:   "Order placed",
		Message: fmt.Sprintf("Your order #%s has been placed successfully.", ShortID(o.ID)),
		Time:    now,
	}
}

// NewStatusNotification builds the feed entry for a status change.
func NewStatusNotification(o *models.Order, id string, now time.Time) models.Notification {
	n := models.Notification{
		ID:     id,
		UserID: o.UserID,
		Type:   models.NotificationDelivery,
		Time:   now,
	}
	ref := ShortID(o.ID)
	switch o.Status {
	case models.StatusProcessing:
		n.Type = models.NotificationOrder
		n.Title = "Order confirmed"
		n.Message = fmt.Sprintf("We are preparing your order #%s.", ref)
	case models.StatusShipped:
		n.Title = "Order on the way"
		n.Message = fmt.Sprintf("Your order #%s has been shipped.", ref)
	case models.StatusDelivered:
		n.Title = "Order delivered"
		n.Message = fmt.Sprintf("Your order #%s has been delivered. Enjoy your flowers!", ref)
	case models.StatusCancelled:
		n.Type = models.NotificationOrder
		n.Title = "Order cancelled"
		n.Message = fmt.Sprintf("Your order #%s has been cancelled.", ref)
	default:
		n.Type = models.NotificationOrder
		n.Title = "Order updated"
		n.Message = fmt.Sprintf("Your order #%s is now %s.", ref, o.Status)
	}
	return n
}

// ShortID is the display form of an order id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
