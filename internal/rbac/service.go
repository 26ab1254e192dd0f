package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service orchestrates role and permission operations and is the single
// permission-resolution path for the whole application.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns a page of roles.
func (s *Service) ListRoles(ctx context.Context, filters shared.ListFilters) ([]Role, int, error) {
	return s.repo.ListRoles(ctx, filters)
}

// CreateRole inserts a new role with a unique name.
func (s *Service) CreateRole(ctx context.Context, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name required", shared.ErrValidation)
	}
	role, err := s.repo.CreateRole(ctx, name, strings.TrimSpace(description))
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return Role{}, fmt.Errorf("%w: role already exists", shared.ErrConflict)
		}
		return Role{}, err
	}
	return role, nil
}

// DeleteRole removes a role. The Admin role can never be deleted, and a
// role still held by any user is protected by a referential guard.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if role.Name == AdminRole {
		return fmt.Errorf("%w: cannot delete the %s role", shared.ErrConflict, AdminRole)
	}
	inUse, err := s.repo.RoleInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: role is assigned to one or more users", shared.ErrConflict)
	}
	return s.repo.DeleteRole(ctx, id)
}

// ListPermissions returns all permission records, unfiltered.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// EnsurePermission creates a permission by name, returning the existing
// record when the name is already taken. Races with a concurrent create
// fold into the same answer.
func (s *Service) EnsurePermission(ctx context.Context, name, description string) (Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Permission{}, fmt.Errorf("%w: permission name required", shared.ErrValidation)
	}
	if perm, err := s.repo.GetPermissionByName(ctx, name); err == nil {
		return perm, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Permission{}, err
	}

	perm, err := s.repo.CreatePermission(ctx, name, strings.TrimSpace(description))
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return s.repo.GetPermissionByName(ctx, name)
		}
		return Permission{}, err
	}
	return perm, nil
}

// RolePermissions returns the permission records mapped to a role.
func (s *Service) RolePermissions(ctx context.Context, roleID int64) ([]Permission, error) {
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	perms, err := s.repo.ListRolePermissions(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []Permission{}
	}
	return perms, nil
}

// AssignPermissions replaces the role's entire permission set with the
// given ids. Duplicates in the input collapse to one mapping. Permission
// ids are not validated here; a dangling id surfaces as a validation
// error from the store's referential constraint.
func (s *Service) AssignPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	seen := make(map[int64]struct{}, len(permissionIDs))
	distinct := make([]int64, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	return s.repo.ReplaceRolePermissions(ctx, roleID, distinct)
}

// EffectivePermissions computes the union of permission names granted by
// every role the user holds, deduplicated and lowercased. A user with no
// roles, or an unknown user, yields an empty set rather than an error.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	if userID <= 0 {
		return []string{}, nil
	}
	roleIDs, err := s.repo.RoleIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(roleIDs) == 0 {
		return []string{}, nil
	}
	names, err := s.repo.PermissionNamesForRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(names))
	perms := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		perms = append(perms, name)
	}
	return perms, nil
}

// ResolveUserID maps a principal to a user record id. The subject claim
// wins when it carries a user id; otherwise the email identifier is
// matched against stored emails. No match resolves to 0, which
// downstream consumers treat as "no permissions".
func (s *Service) ResolveUserID(ctx context.Context, principal *shared.Principal) (int64, error) {
	if principal == nil {
		return 0, nil
	}
	if principal.UserID > 0 {
		return principal.UserID, nil
	}
	if principal.Email == "" {
		return 0, nil
	}
	id, err := s.repo.FindUserIDByEmail(ctx, strings.ToLower(principal.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return id, nil
}
