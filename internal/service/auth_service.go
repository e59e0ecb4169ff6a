package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// AuthService handles account registration, login and profile lookup.
type AuthService struct {
	store         storage.Store
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.Store, authenticator auth.Authenticator, tokens *auth.JWTManager) *AuthService {
	return &AuthService{store: store, authenticator: authenticator, tokens: tokens}
}

// Register creates a new account and returns the user with a signed token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if name == "" {
		return nil, "", validationf("name is required")
	}
	if email == "" {
		return nil, "", validationf("email is required")
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	slog.Info("User registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

// GetUser returns the account profile for userID.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if isMissing(err) {
			return nil, notFoundf("user %d", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
