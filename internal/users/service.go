package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service handles administrative user management.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users with their roles.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser fetches a user by email.
func (s *Service) GetUser(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// CreateUser provisions an account with an explicit role. The role is
// created on demand when it does not exist yet.
func (s *Service) CreateUser(ctx context.Context, email, name, password, role string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	role = strings.TrimSpace(role)
	if role == "" {
		return User{}, fmt.Errorf("%w: role required", shared.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.CreateUser(ctx, email, strings.TrimSpace(name), string(hash))
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return User{}, fmt.Errorf("%w: user already exists", shared.ErrConflict)
		}
		return User{}, err
	}

	roleID, err := s.repo.EnsureRole(ctx, role)
	if err != nil {
		return User{}, err
	}
	if err := s.repo.AssignRole(ctx, user.ID, roleID); err != nil {
		return User{}, err
	}
	user.Roles = []string{role}
	return user, nil
}

// ChangeRole replaces the user's roles with the single named role.
func (s *Service) ChangeRole(ctx context.Context, email, role string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	roleID, err := s.repo.RoleIDByName(ctx, strings.TrimSpace(role))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: role does not exist", shared.ErrNotFound)
		}
		return err
	}
	return s.repo.ReplaceUserRoles(ctx, user.ID, []int64{roleID})
}

// DeleteUser removes the account and its role links.
func (s *Service) DeleteUser(ctx context.Context, email string) error {
	return s.repo.DeleteByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}
