package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/0xHy0kR1/LF-backend/internal/auth"
	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/0xHy0kR1/LF-backend/internal/repository"
)

// UserService registers and authenticates users.
type UserService struct {
	users  UserStore
	tokens *auth.TokenIssuer
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, tokens *auth.TokenIssuer, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger.With("component", "service.user"),
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an account. Only the bcrypt hash of the password is stored.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := ValidateRegistration(input.Username, input.Email, input.Password); err != nil {
		return nil, err
	}

	email := NormalizeEmail(input.Email)

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     strings.TrimSpace(input.Username),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrUsernameExists) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	s.logger.Info("user_registered", "user_id", user.ID)
	return user, nil
}

// Verify checks credentials and returns the matching user.
func (s *UserService) Verify(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrWrongPassword
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues an identity token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Verify(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("user_logged_in", "user_id", user.ID)
	return token, nil
}

// Authenticate resolves a token to a live user.
// Returns ErrUnauthenticated for a missing or invalid token and ErrUserNotFound
// when the token is valid but the account no longer exists.
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
