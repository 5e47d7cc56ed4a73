package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/FortunateSmith/LightBnB/internal/domain"
	"github.com/FortunateSmith/LightBnB/internal/repository"
	apperrors "github.com/FortunateSmith/LightBnB/pkg/errors"
)

// bcryptCost is the work factor applied to stored password hashes.
const bcryptCost = 12

// UserService implements the business logic for user accounts.
type UserService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register hashes the password and creates the user account. The stored
// email is lowercased by the repository.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies the credentials against the stored hash. Both an unknown
// email and a wrong password produce the same Unauthorized error so callers
// cannot probe which accounts exist.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return user, nil
}

// GetUser retrieves a user by their unique identifier.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("user id must be positive")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
