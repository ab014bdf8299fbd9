package handlers

import (
	"log"

	"florist/internal/middleware"
	"florist/internal/models"
	"florist/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and the user profile.
type AuthHandler struct {
	authService   *services.AuthService
	notifications *services.NotificationService
	validate      *validator.Validate
}

// NewAuthHandler creates a new AuthHandler. notifications may be nil.
func NewAuthHandler(authService *services.AuthService, notifications *services.NotificationService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		notifications: notifications,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/otp/request", h.HandleRequestOTP)
	authRoutes.Post("/otp/verify", h.HandleVerifyOTP)
}

// RegisterProtectedRoutes registers the routes that need a session.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/auth/logout", h.HandleLogout)
	router.Get("/profile", h.HandleGetProfile)
	router.Put("/profile", h.HandleUpdateProfile)
	router.Post("/profile/onboarding", h.HandleCompleteOnboarding)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := parseBody(c, h.validate, &user); err != nil {
		return fail(c, "Registration failed", err)
	}
	user.ID = ""

	if err := h.authService.RegisterUser(&user); err != nil {
		return fail(c, "Registration failed", err)
	}
	if h.notifications != nil {
		if err := h.notifications.Welcome(user.ID); err != nil {
			log.Printf("Failed to send welcome notification to %s: %v", user.ID, err)
		}
	}

	// For security, do not return the password hash
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Authentication failed", err)
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return fail(c, "Authentication failed", err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// OTPRequest names the email address or phone number to verify.
type OTPRequest struct {
	Target string `json:"target" validate:"required,max=255"`
}

// OTPVerifyRequest carries the code the user received.
type OTPVerifyRequest struct {
	Target string `json:"target" validate:"required,max=255"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

// HandleRequestOTP issues a one-time passcode.
func (h *AuthHandler) HandleRequestOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Could not send code", err)
	}
	if err := h.authService.RequestOTP(req.Target); err != nil {
		return fail(c, "Could not send code", err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Verification code sent",
	})
}

// HandleVerifyOTP checks a passcode. A token is included when the target
// belongs to a registered user.
func (h *AuthHandler) HandleVerifyOTP(c *fiber.Ctx) error {
	var req OTPVerifyRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Verification failed", err)
	}
	token, err := h.authService.VerifyOTP(req.Target, req.Code)
	if err != nil {
		return fail(c, "Verification failed", err)
	}
	resp := fiber.Map{
		"message":  "Code verified",
		"verified": true,
	}
	if token != "" {
		resp["token"] = token
	}
	return c.JSON(resp)
}

// HandleLogout ends the current session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.LogoutUser(middleware.UserID(c)); err != nil {
		return fail(c, "Could not log out", err)
	}
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// HandleGetProfile returns the user and their session flags.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, session, err := h.authService.GetProfile(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not retrieve profile", err)
	}
	user.Password = ""
	return c.JSON(fiber.Map{
		"user":    user,
		"session": session,
	})
}

// ProfileRequest is the editable part of the profile.
type ProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}

// HandleUpdateProfile changes the name and phone number.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return fail(c, "Could not update profile", err)
	}
	user, err := h.authService.UpdateProfile(middleware.UserID(c), req.Name, req.Phone)
	if err != nil {
		return fail(c, "Could not update profile", err)
	}
	user.Password = ""
	return c.JSON(user)
}

// HandleCompleteOnboarding marks onboarding as done.
func (h *AuthHandler) HandleCompleteOnboarding(c *fiber.Ctx) error {
	session, err := h.authService.CompleteOnboarding(middleware.UserID(c))
	if err != nil {
		return fail(c, "Could not complete onboarding", err)
	}
	return c.JSON(session)
}
