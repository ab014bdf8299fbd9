package models

import "time"

// Address is a shipping address owned by a user. At most one address per user
// is the default.
type Address struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"-" gorm:"index;type:varchar(36)"`
	Name      string    `json:"name" validate:"required,max=100"`
	Street    string    `json:"street" validate:"required,max=200"`
	City      string    `json:"city" validate:"required,max=100"`
	State     string    `json:"state" validate:"omitempty,max=100"`
	Zip       string    `json:"zip" validate:"omitempty,max=20"`
	Phone     string    `json:"phone" validate:"required,max=20"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
