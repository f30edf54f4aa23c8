// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/karanj/evently/internal/auth"
	"github.com/karanj/evently/internal/model"
	"github.com/karanj/evently/internal/password"
)

// UserStore is the persistence surface the auth service depends on.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService registers users and authenticates them, issuing session tokens.
type AuthService struct {
	users    UserStore
	tokens   *auth.TokenManager
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, tokens *auth.TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Signup validates the request, hashes the password, and persists a new user.
// It never returns the password or its hash.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := s.validate.Struct(req); err != nil {
		return asValidationError(err)
	}
	if req.Password != req.ConfirmPassword {
		return model.NewValidationError("confirmPassword", "does not match password")
	}
	if !password.IsStrong(req.Password) {
		return model.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.Create(ctx, req.Name, req.Email, string(hash)); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("email", req.Email).Msg("user registered")
	return nil
}

// Login verifies the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := s.validate.Struct(req); err != nil {
		return "", asValidationError(err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("failed login attempt")
		return "", model.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Name)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// asValidationError converts a validator failure into the domain's typed
// validation error, keeping the first failing field.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Field()
		if fe.Tag() == "required" {
			return model.NewValidationError(field, "is required")
		}
		return model.NewValidationError(field, "is invalid")
	}
	return model.NewValidationError("request", "is invalid")
}
