// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/cafe-directory/internal/config"
	"codeberg.org/oliverandrich/cafe-directory/internal/models"
	"codeberg.org/oliverandrich/cafe-directory/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists        = errors.New("user already exists")
	ErrEmailNotFound     = errors.New("email does not exist")
	ErrPasswordIncorrect = errors.New("password incorrect")
	ErrPasswordTooLong   = errors.New("password too long")
)

type Service struct {
	repo *repository.Repository
	cost int
}

func NewService(repo *repository.Repository, cfg *config.AuthConfig) *Service {
	return &Service{
		repo: repo,
		cost: cfg.Cost(),
	}
}

// RegisterParams holds the parameters for user registration
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user account. The first account ever created becomes the admin.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	email := normalizeEmail(params.Email)

	exists, err := s.repo.UserExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		slog.Info("register_failed", "email", email, "reason", "user_exists")
		return nil, ErrUserExists
	}

	passwordHash, err := s.hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	if err := s.repo.CreateUserWithFirstAdmin(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", email, "role", user.Role)

	return user, nil
}

// Login authenticates a user by exact email match.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("login_failed", "email", email, "reason", "email_not_found")
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "password_incorrect")
		return nil, ErrPasswordIncorrect
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, nil
}

// EnsureAdmin makes sure the account with the given email exists and is an admin.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = normalizeEmail(email)

	existing, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil
		}
		if err := s.repo.SetUserRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to set admin: %w", err)
		}
		slog.Info("admin_promoted", "user_id", existing.ID, "email", email)
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to get user: %w", err)
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleAdmin,
	}
	if err := s.repo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin_created", "user_id", admin.ID, "email", email)
	return nil
}

func (s *Service) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
