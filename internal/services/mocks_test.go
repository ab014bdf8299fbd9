package services_test

import (
	"log"
	"os"
	"testing"

	"florist/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of repositories.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(userID string) (*models.UserSession, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSession), args.Error(1)
}

func (m *MockSessionRepository) Save(s *models.UserSession) error {
	args := m.Called(s)
	return args.Error(0)
}

// memOTPRepository keeps issued codes in a slice.
type memOTPRepository struct {
	codes []*models.OTP
}

func (r *memOTPRepository) Create(otp *models.OTP) error {
	otp.ID = "otp"
	r.codes = append(r.codes, otp)
	return nil
}

func (r *memOTPRepository) Latest(target string) (*models.OTP, error) {
	for i := len(r.codes) - 1; i >= 0; i-- {
		if r.codes[i].Target == target {
			return r.codes[i], nil
		}
	}
	return nil, errNotFound
}

func (r *memOTPRepository) Save(*models.OTP) error { return nil }

// captureSender records the last code sent.
type captureSender struct {
	target, code string
}

func (c *captureSender) SendOTP(target, code string) error {
	c.target, c.code = target, code
	return nil
}

// MockEventPublisher is a mock implementation of services.OrderEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event models.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockNotificationPublisher is a mock implementation of services.NotificationPublisher
type MockNotificationPublisher struct {
	mock.Mock
}

func (m *MockNotificationPublisher) PublishNotification(n models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}
