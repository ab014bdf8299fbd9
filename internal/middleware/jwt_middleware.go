package middleware

import (
	"log"
	"strings"

	"florist/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Keys under which AuthRequired stores the caller in fiber.Ctx locals.
const (
	localUserID = "user_id"
	localEmail  = "email"
	localRole   = "role"
)

// AuthRequired admits requests that carry a bearer token for an open
// session and records the caller for the handlers behind it.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, problem := bearerToken(c.Get(fiber.HeaderAuthorization))
		if problem != "" {
			return deny(c, fiber.StatusUnauthorized, problem, nil)
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.Printf("Rejected token on %s %s: %v", c.Method(), c.Path(), err)
			return deny(c, fiber.StatusUnauthorized, "Invalid or expired token", err)
		}

		c.Locals(localUserID, claims["user_id"])
		c.Locals(localEmail, claims["email"])
		c.Locals(localRole, claims["role"])
		return c.Next()
	}
}

// RequireRole lets through only callers whose token carries role. Mount it
// behind AuthRequired.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Role(c) != role {
			return deny(c, fiber.StatusForbidden, "This action requires the "+role+" role", nil)
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// Role returns the authenticated user's role, empty for tokens without one.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(localRole).(string)
	return role
}

// bearerToken extracts the token from an Authorization header. problem is
// the client-facing reason when the header is unusable.
func bearerToken(header string) (token, problem string) {
	if header == "" {
		return "", "Authorization header is required"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", "Authorization header format must be 'Bearer <token>'"
	}
	return token, ""
}

func deny(c *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}
