package repositories

import "florist/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
}

// SessionRepository persists the per-user session flags.
type SessionRepository interface {
	// Get returns the stored session, or a fresh logged-out one.
	Get(userID string) (*models.UserSession, error)
	Save(session *models.UserSession) error
}

// OTPRepository stores issued one-time passcodes.
type OTPRepository interface {
	Create(otp *models.OTP) error
	// Latest returns the most recently issued code for target.
	Latest(target string) (*models.OTP, error)
	Save(otp *models.OTP) error
}
