package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles. Operators run fulfilment and the catalog.
const (
	RoleCustomer = "customer"
	RoleOperator = "operator"
)

// User represents a customer of the store.
type User struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string         `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Email     string         `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Phone     string         `json:"phone,omitempty" gorm:"type:varchar(20)" validate:"omitempty,e164"`
	Password  string         `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role      string         `json:"role" gorm:"type:varchar(16);default:customer"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserSession holds the per-user flags that must survive a restart.
type UserSession struct {
	UserID             string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	LoggedIn           bool      `json:"is_logged_in"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// OTP is a one-time passcode issued to an email address or phone number.
// Only the bcrypt hash of the code is stored.
type OTP struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Target    string    `gorm:"index;type:varchar(255)"`
	CodeHash  string    `gorm:"type:varchar(255)"`
	Attempts  int       `gorm:"default:0"`
	Consumed  bool      `gorm:"default:false"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
