package rbac

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hr/meridian/internal/shared"
)

// DefaultRoles are created on every bootstrap run.
func DefaultRoles() []string {
	return []string{AdminRole, "User", "Manager"}
}

// BootstrapConfig carries the administrative defaults seeded at startup.
type BootstrapConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// Bootstrap idempotently ensures the default roles, the permission
// catalog, and the administrative account exist, then re-maps the Admin
// role to the full current permission list. Running it twice leaves the
// same state as running it once.
func (s *Service) Bootstrap(ctx context.Context, cfg BootstrapConfig) error {
	var adminRoleID int64
	for _, name := range DefaultRoles() {
		role, err := s.repo.EnsureRole(ctx, name)
		if err != nil {
			return fmt.Errorf("rbac: ensure role %s: %w", name, err)
		}
		if name == AdminRole {
			adminRoleID = role.ID
		}
	}

	for _, name := range shared.AllPermissions() {
		if _, err := s.EnsurePermission(ctx, name, name); err != nil {
			return fmt.Errorf("rbac: ensure permission %s: %w", name, err)
		}
	}

	adminID, err := s.repo.FindUserIDByEmail(ctx, cfg.AdminEmail)
	if errors.Is(err, shared.ErrNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		name := cfg.AdminName
		if name == "" {
			name = "Admin"
		}
		adminID, err = s.repo.EnsureUser(ctx, cfg.AdminEmail, name, string(hash))
	}
	if err != nil {
		return fmt.Errorf("rbac: ensure admin user: %w", err)
	}
	if err := s.repo.AssignRoleToUser(ctx, adminID, adminRoleID); err != nil {
		return fmt.Errorf("rbac: assign admin role: %w", err)
	}

	// Re-map Admin to everything currently in the catalog, replacing any
	// previous mapping rather than merging into it.
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return err
	}
	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	if err := s.repo.ReplaceRolePermissions(ctx, adminRoleID, ids); err != nil {
		return fmt.Errorf("rbac: map admin permissions: %w", err)
	}
	return nil
}
