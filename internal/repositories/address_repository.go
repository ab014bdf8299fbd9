package repositories

import (
	"errors"
	"fmt"

	"florist/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressRepository defines the interface for a user's address book.
type AddressRepository interface {
	ListByUser(userID string) ([]models.Address, error)
	GetByID(userID, id string) (*models.Address, error)
	Save(address *models.Address) error
	Delete(userID, id string) error
	// ClearDefault unsets the default flag on every address of the user
	// except keepID.
	ClearDefault(userID, keepID string) error
}

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

func (r *GORMAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	var list []models.Address
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return list, nil
}

func (r *GORMAddressRepository) GetByID(userID, id string) (*models.Address, error) {
	var a models.Address
	if err := r.db.First(&a, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get address %s: %w", id, err)
	}
	return &a, nil
}

// Save inserts or updates the address, assigning an id when missing.
func (r *GORMAddressRepository) Save(a *models.Address) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if err := r.db.Save(a).Error; err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}
	return nil
}

func (r *GORMAddressRepository) Delete(userID, id string) error {
	res := r.db.Delete(&models.Address{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMAddressRepository) ClearDefault(userID, keepID string) error {
	err := r.db.Model(&models.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keepID, true).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}
