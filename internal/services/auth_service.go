package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"florist/internal/models"
	"florist/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const maxOTPAttempts = 5

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionEnded       = errors.New("session has ended, please log in again")
	ErrOTPInvalid         = errors.New("invalid verification code")
	ErrOTPExpired         = errors.New("verification code expired")
)

// OTPSender delivers one-time passcodes to the user.
type OTPSender interface {
	SendOTP(target, code string) error
}

// LogOTPSender writes codes to the log. Used when no SMS or mail gateway is
// configured.
type LogOTPSender struct{}

func (LogOTPSender) SendOTP(target, code string) error {
	log.Printf("OTP for %s: %s", target, code)
	return nil
}

// AuthConfig tunes token and passcode lifetimes.
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
	OTPTTL        time.Duration
	OTPSender     OTPSender
	// OperatorEmails are granted the operator role at registration and login.
	OperatorEmails []string
}

// AuthService handles registration, login, OTP verification and the
// persisted session flags.
type AuthService struct {
	userRepo      repositories.UserRepository
	sessionRepo   repositories.SessionRepository
	otpRepo       repositories.OTPRepository
	jwtSecret     []byte
	tokenDuration time.Duration
	otpTTL        time.Duration
	otpSender     OTPSender
	operators     map[string]bool
	now           func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, otpRepo repositories.OTPRepository, cfg AuthConfig) *AuthService {
	if cfg.TokenDuration <= 0 {
		cfg.TokenDuration = 24 * time.Hour
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	if cfg.OTPSender == nil {
		cfg.OTPSender = LogOTPSender{}
	}
	operators := make(map[string]bool, len(cfg.OperatorEmails))
	for _, email := range cfg.OperatorEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			operators[email] = true
		}
	}
	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		otpRepo:       otpRepo,
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenDuration: cfg.TokenDuration,
		otpTTL:        cfg.OTPTTL,
		otpSender:     cfg.OTPSender,
		operators:     operators,
		now:           time.Now,
	}
}

// RegisterUser hashes the password and stores a new user.
func (s *AuthService) RegisterUser(user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("'%s': %w", user.Email, ErrEmailTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.Role = ""
	user.Role = s.roleOf(user)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates by email and password, marks the session logged
// in and returns a signed token.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.startSession(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) startSession(user *models.User) (string, error) {
	sess, err := s.sessionRepo.Get(user.ID)
	if err != nil {
		return "", err
	}
	sess.LoggedIn = true
	sess.UpdatedAt = s.now()
	if err := s.sessionRepo.Save(sess); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    s.roleOf(user),
		"exp":     s.now().Add(s.tokenDuration).Unix(),
		"iat":     s.now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) roleOf(user *models.User) string {
	if user.Role == models.RoleOperator || s.operators[user.Email] {
		return models.RoleOperator
	}
	return models.RoleCustomer
}

// LogoutUser ends the persisted session. Tokens issued earlier stop working.
func (s *AuthService) LogoutUser(userID string) error {
	sess, err := s.sessionRepo.Get(userID)
	if err != nil {
		return err
	}
	sess.LoggedIn = false
	sess.UpdatedAt = s.now()
	return s.sessionRepo.Save(sess)
}

// ValidateToken parses a token and checks the session is still open.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	sess, err := s.sessionRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if !sess.LoggedIn {
		return nil, ErrSessionEnded
	}
	return claims, nil
}

// RequestOTP issues a 6-digit code for target and hands it to the sender.
func (s *AuthService) RequestOTP(target string) error {
	target = normalizeTarget(target)
	code, err := randomCode(6)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	otp := &models.OTP{
		Target:    target,
		CodeHash:  string(hash),
		ExpiresAt: s.now().Add(s.otpTTL),
		CreatedAt: s.now(),
	}
	if err := s.otpRepo.Create(otp); err != nil {
		return err
	}
	if err := s.otpSender.SendOTP(target, code); err != nil {
		return fmt.Errorf("failed to send code: %w", err)
	}
	return nil
}

// VerifyOTP checks code against the latest code issued for target. Codes
// are single use and lock after five wrong attempts. When target is the
// email of a registered user a session token is returned as well.
func (s *AuthService) VerifyOTP(target, code string) (string, error) {
	target = normalizeTarget(target)
	otp, err := s.otpRepo.Latest(target)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrOTPInvalid
		}
		return "", err
	}
	if otp.Consumed || otp.Attempts >= maxOTPAttempts {
		return "", ErrOTPInvalid
	}
	if s.now().After(otp.ExpiresAt) {
		return "", ErrOTPExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		otp.Attempts++
		if err := s.otpRepo.Save(otp); err != nil {
			return "", err
		}
		return "", ErrOTPInvalid
	}

	otp.Consumed = true
	if err := s.otpRepo.Save(otp); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(target)
	if err != nil {
		return "", nil
	}
	return s.startSession(user)
}

// GetProfile returns the user and their session flags.
func (s *AuthService) GetProfile(userID string) (*models.User, *models.UserSession, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.sessionRepo.Get(userID)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// UpdateProfile changes the display name and phone number.
func (s *AuthService) UpdateProfile(userID, name, phone string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.Phone = phone
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// CompleteOnboarding records that the user has finished onboarding.
func (s *AuthService) CompleteOnboarding(userID string) (*models.UserSession, error) {
	sess, err := s.sessionRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	sess.OnboardingComplete = true
	sess.UpdatedAt = s.now()
	if err := s.sessionRepo.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func normalizeTarget(target string) string {
	target = strings.TrimSpace(target)
	if strings.Contains(target, "@") {
		return strings.ToLower(target)
	}
	return target
}

func randomCode(digits int) (string, error) {
	var b strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
