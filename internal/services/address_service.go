package services

import (
	"florist/internal/models"
	"florist/internal/repositories"
)

// AddressService manages a user's address book. At most one address is the
// default and the first address saved becomes it.
type AddressService struct {
	repo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// ListAddresses returns the user's addresses, oldest first.
func (s *AddressService) ListAddresses(userID string) ([]models.Address, error) {
	return s.repo.ListByUser(userID)
}

// CreateAddress stores a new address for the user.
func (s *AddressService) CreateAddress(userID string, a *models.Address) error {
	existing, err := s.repo.ListByUser(userID)
	if err != nil {
		return err
	}
	a.ID = ""
	a.UserID = userID
	if len(existing) == 0 {
		a.IsDefault = true
	}
	return s.save(a)
}

// UpdateAddress replaces the fields of an existing address.
func (s *AddressService) UpdateAddress(userID, id string, a *models.Address) error {
	current, err := s.repo.GetByID(userID, id)
	if err != nil {
		return err
	}
	a.ID = current.ID
	a.UserID = userID
	a.CreatedAt = current.CreatedAt
	if current.IsDefault && !a.IsDefault {
		// the default can only move, never disappear
		a.IsDefault = true
	}
	return s.save(a)
}

// DeleteAddress removes an address. When it was the default the oldest
// remaining address is promoted.
func (s *AddressService) DeleteAddress(userID, id string) error {
	current, err := s.repo.GetByID(userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(userID, id); err != nil {
		return err
	}
	if !current.IsDefault {
		return nil
	}
	rest, err := s.repo.ListByUser(userID)
	if err != nil || len(rest) == 0 {
		return err
	}
	rest[0].IsDefault = true
	return s.repo.Save(&rest[0])
}

func (s *AddressService) save(a *models.Address) error {
	if err := s.repo.Save(a); err != nil {
		return err
	}
	if a.IsDefault {
		return s.repo.ClearDefault(a.UserID, a.ID)
	}
	return nil
}
