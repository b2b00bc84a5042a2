package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayush/vexa-chat/internal/models"
	"github.com/ayush/vexa-chat/internal/store"
)

// Service errors surfaced to handlers. Login failures deliberately share
// one message so error text cannot be used to enumerate usernames.
var (
	ErrDuplicate          = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	TouchUpdatedAt(ctx context.Context, id string) error
}

// Service implements account registration and login verification.
type Service struct {
	users  UserStore
	logger *slog.Logger
}

func NewService(users UserStore, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Register creates a new account. The uniqueness check and the insert are
// two separate store calls; under a signup race the database's unique
// constraints are the final authority and their violation surfaces as a
// wrapped store error.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	existing, err := s.users.GetUserByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicate
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, email, hash)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials by exact username match. A missing user and
// a wrong password both return ErrInvalidCredentials. On success the
// account's updated_at is touched best-effort; a failed touch is logged
// and never fails the login.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchUpdatedAt(ctx, user.ID); err != nil {
		s.logger.Warn("touch updated_at failed", "user_id", user.ID, "error", err)
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// GetUser fetches an account by id for the /me endpoint.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}
