package middleware_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"florist/internal/middleware"
	"florist/internal/models"
	"florist/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type users struct{ u *models.User }

func (r users) Create(*models.User) error { return nil }
func (r users) GetByEmail(string) (*models.User, error) {
	return r.u, nil
}
func (r users) GetByID(string) (*models.User, error) { return r.u, nil }
func (r users) Update(*models.User) error            { return nil }

type sessions struct{ s *models.UserSession }

func (r sessions) Get(string) (*models.UserSession, error) { return r.s, nil }
func (r sessions) Save(*models.UserSession) error          { return nil }

type otps struct{}

func (otps) Create(*models.OTP) error           { return nil }
func (otps) Latest(string) (*models.OTP, error) { return nil, nil }
func (otps) Save(*models.OTP) error             { return nil }

func TestAuthRequired(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: "u1", Email: "mai@example.com", Password: string(hash)}
	session := &models.UserSession{UserID: "u1"}

	auth := services.NewAuthService(users{user}, sessions{session}, otps{}, services.AuthConfig{
		JWTSecret:     "secret",
		TokenDuration: time.Hour,
	})
	token, _, err := auth.LoginUser("mai@example.com", "password123")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(auth), func(c *fiber.Ctx) error {
		return c.SendString(middleware.UserID(c))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Token " + token, fiber.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", fiber.StatusUnauthorized},
		{"valid token", "Bearer " + token, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	require.NoError(t, auth.LogoutUser("u1"))
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	login := func(email string, operators ...string) (*services.AuthService, string) {
		user := &models.User{ID: "u-" + email, Email: email, Password: string(hash), Role: models.RoleCustomer}
		auth := services.NewAuthService(users{user}, sessions{&models.UserSession{UserID: user.ID}}, otps{}, services.AuthConfig{
			JWTSecret:      "secret",
			TokenDuration:  time.Hour,
			OperatorEmails: operators,
		})
		token, _, err := auth.LoginUser(email, "password123")
		require.NoError(t, err)
		return auth, token
	}

	tests := []struct {
		name      string
		email     string
		operators []string
		status    int
	}{
		{"customer", "mai@example.com", nil, fiber.StatusForbidden},
		{"operator", "ops@example.com", []string{" OPS@example.com "}, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, token := login(tt.email, tt.operators...)
			app := fiber.New()
			app.Patch("/orders/:id/status", middleware.AuthRequired(auth), middleware.RequireRole(models.RoleOperator), func(c *fiber.Ctx) error {
				return c.SendString(middleware.Role(c))
			})

			req := httptest.NewRequest("PATCH", "/orders/o1/status", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
