package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"florist/internal/models"

	"github.com/google/uuid"
)

// MockAddressRepository is an in-memory implementation of AddressRepository.
type MockAddressRepository struct {
	addresses map[string]models.Address
	mu        sync.RWMutex
	now       func() time.Time
}

// NewMockAddressRepository creates a new instance of MockAddressRepository.
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{
		addresses: make(map[string]models.Address),
		now:       time.Now,
	}
}

func (r *MockAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Address, 0)
	for _, a := range r.addresses {
		if a.UserID == userID {
			list = append(list, a)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *MockAddressRepository) GetByID(userID, id string) (*models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
	}
	return &a, nil
}

func (r *MockAddressRepository) Save(a *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		// strictly increasing so insertion order survives sorting
		a.CreatedAt = r.now().Add(time.Duration(len(r.addresses)) * time.Millisecond)
	}
	a.UpdatedAt = r.now()
	r.addresses[a.ID] = *a
	return nil
}

func (r *MockAddressRepository) Delete(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return fmt.Errorf("address %s: %w", id, ErrNotFound)
	}
	delete(r.addresses, id)
	return nil
}

func (r *MockAddressRepository) ClearDefault(userID, keepID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.addresses {
		if a.UserID == userID && id != keepID && a.IsDefault {
			a.IsDefault = false
			r.addresses[id] = a
		}
	}
	return nil
}
