package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	tokens   *TokenManager
	denylist *Denylist
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager, denylist *Denylist) *Service {
	return &Service{repo: repo, tokens: tokens, denylist: denylist}
}

// Register creates a self-service account with the default role and
// returns a signed token for it.
func (s *Service) Register(ctx context.Context, email, name, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, fmt.Errorf("%w: user already exists", shared.ErrConflict)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	user, err := s.repo.CreateUser(ctx, email, strings.TrimSpace(name), string(hash))
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return "", nil, fmt.Errorf("%w: user already exists", shared.ErrConflict)
		}
		return "", nil, err
	}

	roleID, err := s.repo.EnsureRole(ctx, DefaultRole)
	if err != nil {
		return "", nil, err
	}
	if err := s.repo.AssignRole(ctx, user.ID, roleID); err != nil {
		return "", nil, err
	}

	token, _, err := s.tokens.Issue(user, []string{DefaultRole})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login validates credentials and issues a token. Unknown, inactive and
// wrong-password cases are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}

	roles, err := s.repo.RoleNamesForUser(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	token, _, err := s.tokens.Issue(user, roles)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, principal *shared.Principal) error {
	if principal == nil {
		return shared.ErrUnauthorized
	}
	return s.denylist.Revoke(ctx, principal.TokenID, principal.ExpiresAt)
}
