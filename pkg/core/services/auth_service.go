package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

const (
	maxUsernameLen = 50
	minPasswordLen = 6
)

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// timingHash returns a real bcrypt hash so unknown usernames cost the same
// as wrong passwords.
func timingHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("not-a-real-password")
	})
	return dummyHash
}

type AuthService struct {
	users  ports.UserRepository
	tokens *auth.TokenService
}

func NewAuthService(users ports.UserRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login checks a username/password pair and issues a token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return "", nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		auth.VerifyPassword(password, timingHash())
		return "", nil, domain.NewUnauthorizedError("Invalid credentials")
	}
	if err != nil {
		return "", nil, domain.NewInternalError("Internal server error", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, domain.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, domain.NewInternalError("Internal server error", err)
	}
	return token, user, nil
}

// Authenticate validates a bearer token and re-reads its account, so a
// deleted user is rejected on the next request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(token)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrTokenExpired):
		return nil, domain.NewUnauthorizedError("Token expired")
	default:
		return nil, domain.NewUnauthorizedError("Invalid token")
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewUnauthorizedError("User not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("Internal server error", err)
	}
	return user, nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return domain.NewValidationError("Username is required and must be a non-empty string")
	}
	if strings.TrimSpace(password) == "" {
		return domain.NewValidationError("Password is required and must be a non-empty string")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return domain.NewValidationError("Username must be 50 characters or less")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return domain.NewValidationError("Password must be at least 6 characters long")
	}
	return nil
}
