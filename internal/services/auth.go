package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
	"devconnect-api/internal/utils"
)

const passwordHashCost = 12

var (
	errEmailTaken         = conflict("Email already registered")
	errPhoneTaken         = conflict("Phone number already registered")
	errInvalidCredentials = unauthenticated("Invalid credentials")
	errInvalidResetToken  = unauthenticated("Invalid or expired reset token")
)

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	store    store.Store
	jwt      *utils.JWTUtil
	mailer   Mailer
	resetTTL time.Duration
	cost     int
	now      func() time.Time
}

func NewAuthService(s store.Store, jwt *utils.JWTUtil, mailer Mailer, resetTTL time.Duration) *AuthService {
	return &AuthService{
		store:    s,
		jwt:      jwt,
		mailer:   mailer,
		resetTTL: resetTTL,
		cost:     passwordHashCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fromValidator(err)
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, internal("failed to check email", err)
	}

	var phone *string
	if req.PhoneNumber != "" {
		p := strings.TrimSpace(req.PhonePrefix) + req.PhoneNumber
		if _, err := s.store.GetUserByPhone(ctx, p); err == nil {
			return nil, errPhoneTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, internal("failed to check phone number", err)
		}
		phone = &p
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, internal("failed to hash password", err)
	}
	hashed := string(hash)

	now := s.now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Name:         req.FirstName + " " + req.LastName,
		PhoneNumber:  phone,
		PasswordHash: &hashed,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique indexes catch concurrent signups that passed the checks above.
	if err := s.store.CreateUser(ctx, user); err != nil {
		var dup *store.DuplicateError
		if errors.As(err, &dup) {
			switch dup.Field {
			case "email":
				return nil, errEmailTaken
			case "phone":
				return nil, errPhoneTaken
			}
		}
		return nil, internal("failed to create user", err)
	}
	return user, nil
}

// Signin returns a session token for valid credentials.
func (s *AuthService) Signin(ctx context.Context, req models.SigninRequest) (string, *models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.Validate.Struct(req); err != nil {
		return "", nil, fromValidator(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, errInvalidCredentials
	}
	if err != nil {
		return "", nil, internal("failed to load user", err)
	}

	// Accounts created through an external provider have no password.
	if user.PasswordHash == nil {
		return "", nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, internal("failed to generate token", err)
	}
	return token, user, nil
}

// RequestPasswordReset mails a reset link when email belongs to a password account.
// Unknown addresses succeed silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.Validate.Struct(req); err != nil {
		return fromValidator(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internal("failed to load user", err)
	}
	if user.PasswordHash == nil {
		return nil
	}

	token, err := s.jwt.GenerateResetToken(user.ID, passwordFingerprint(*user.PasswordHash), s.resetTTL)
	if err != nil {
		return internal("failed to generate reset token", err)
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		log.Printf("Failed to send password reset email to user %s: %v", user.ID, err)
	}
	return nil
}

// ResetPassword sets a new password. Each token works once: changing the password
// changes the fingerprint it was bound to.
func (s *AuthService) ResetPassword(ctx context.Context, req models.NewPasswordRequest) error {
	if err := utils.Validate.Struct(req); err != nil {
		return fromValidator(err)
	}

	claims, err := s.jwt.ValidateResetToken(req.Token)
	if err != nil {
		return errInvalidResetToken
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return errInvalidResetToken
	}
	if err != nil {
		return internal("failed to load user", err)
	}
	if user.PasswordHash == nil || passwordFingerprint(*user.PasswordHash) != claims.Fingerprint {
		return errInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return internal("failed to hash password", err)
	}
	hashed := string(hash)
	user.PasswordHash = &hashed
	user.UpdatedAt = s.now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return storeError(err, "User")
	}
	return nil
}

func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
