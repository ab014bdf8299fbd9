package models

import "time"

// NotificationType classifies feed entries.
type NotificationType string

const (
	NotificationOrder     NotificationType = "order"
	NotificationPromotion NotificationType = "promotion"
	NotificationDelivery  NotificationType = "delivery"
)

// Notification is a user-facing feed entry.
type Notification struct {
	ID      string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID  string           `json:"user_id" gorm:"index;type:varchar(36)"`
	Type    NotificationType `json:"type" gorm:"type:varchar(16)"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time" gorm:"column:sent_at;index"`
	Read    bool             `json:"read" gorm:"column:is_read"`
}
