package repositories

import (
	"errors"
	"fmt"
	"strings"

	"florist/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(user.Email)
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Update saves the profile fields of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":  user.Name,
		"phone": user.Phone,
		"email": strings.ToLower(user.Email),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{db: db}
}

func (r *GORMSessionRepository) Get(userID string) (*models.UserSession, error) {
	var s models.UserSession
	err := r.db.First(&s, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserSession{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session for %s: %w", userID, err)
	}
	return &s, nil
}

// Save upserts the session row.
func (r *GORMSessionRepository) Save(s *models.UserSession) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("failed to save session for %s: %w", s.UserID, err)
	}
	return nil
}

// GORMOTPRepository is a GORM implementation of OTPRepository.
type GORMOTPRepository struct {
	db *gorm.DB
}

func NewGORMOTPRepository(db *gorm.DB) *GORMOTPRepository {
	return &GORMOTPRepository{db: db}
}

func (r *GORMOTPRepository) Create(otp *models.OTP) error {
	if otp.ID == "" {
		otp.ID = uuid.New().String()
	}
	if err := r.db.Create(otp).Error; err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (r *GORMOTPRepository) Latest(target string) (*models.OTP, error) {
	var otp models.OTP
	if err := r.db.Where("target = ?", target).Order("created_at desc").First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("otp for %s: %w", target, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load otp for %s: %w", target, err)
	}
	return &otp, nil
}

func (r *GORMOTPRepository) Save(otp *models.OTP) error {
	if err := r.db.Save(otp).Error; err != nil {
		return fmt.Errorf("failed to save otp: %w", err)
	}
	return nil
}
