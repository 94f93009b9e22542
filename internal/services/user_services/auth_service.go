// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ysakura/eigo-coach/internal/auth"
	"github.com/ysakura/eigo-coach/internal/domain"
	"github.com/ysakura/eigo-coach/internal/repository/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already taken")
)

// AuthService handles registration, login and profile access.
type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Register creates a new account. The display name defaults to the local
// part of the email address.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if taken, err := s.userRepo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		s.logger.Warn("registration failed, username taken", "username", username)
		return nil, ErrUserExists
	}
	if taken, err := s.userRepo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		s.logger.Warn("registration failed, email taken", "email", maskEmail(email))
		return nil, ErrUserExists
	}

	newUser := &domain.User{
		Username:    username,
		Email:       email,
		DisplayName: domain.DefaultDisplayName(email),
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := newUser.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", created.ID, "username", username)
	return created, nil
}

// Login authenticates a user and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	account, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login failed, user not found", "username", username)
		return nil, "", ErrInvalidCredentials
	}

	if err := account.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed, invalid password", "user_id", account.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(account.ID, []byte(s.jwtSecretKey))
	if err != nil {
		s.logger.Error("token generation failed", "user_id", account.ID, "error", err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "user_id", account.ID)
	return account, token, nil
}

// ValidateJWTToken checks a session token and returns the user ID.
func (s *AuthService) ValidateJWTToken(token string) (uint, error) {
	return auth.ValidateToken(token, []byte(s.jwtSecretKey))
}

// GetProfile returns the user's account record.
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateDisplayName changes the user's display name.
func (s *AuthService) UpdateDisplayName(ctx context.Context, userID uint, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return errors.New("display name cannot be empty")
	}
	if len(displayName) > 50 {
		return errors.New("display name is too long")
	}
	return s.userRepo.UpdateDisplayName(ctx, userID, displayName)
}

func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return "****"
	}
	return email[:1] + "****" + email[at:]
}
