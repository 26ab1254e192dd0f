package rbac

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	roles        map[int64]Role
	permissions  map[int64]Permission
	rolePerms    map[int64][]int64
	userRoles    map[int64][]int64
	usersByEmail map[string]int64
	nextRoleID   int64
	nextPermID   int64
	nextUserID   int64

	roleIDsErr   error
	permNamesErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		roles:        make(map[int64]Role),
		permissions:  make(map[int64]Permission),
		rolePerms:    make(map[int64][]int64),
		userRoles:    make(map[int64][]int64),
		usersByEmail: make(map[string]int64),
		nextRoleID:   1,
		nextPermID:   1,
		nextUserID:   1,
	}
}

func (m *mockRepository) ListRoles(ctx context.Context, filters shared.ListFilters) ([]Role, int, error) {
	var all []Role
	for _, r := range m.roles {
		if filters.Search == "" || strings.Contains(strings.ToLower(r.Name), strings.ToLower(filters.Search)) {
			all = append(all, r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, len(all), nil
}

func (m *mockRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	return r, nil
}

func (m *mockRepository) CreateRole(ctx context.Context, name, description string) (Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return Role{}, shared.ErrConflict
		}
	}
	r := Role{ID: m.nextRoleID, Name: name, Description: description}
	m.roles[r.ID] = r
	m.nextRoleID++
	return r, nil
}

func (m *mockRepository) DeleteRole(ctx context.Context, id int64) error {
	if _, ok := m.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.roles, id)
	delete(m.rolePerms, id)
	return nil
}

func (m *mockRepository) RoleInUse(ctx context.Context, id int64) (bool, error) {
	for _, roleIDs := range m.userRoles {
		for _, rid := range roleIDs {
			if rid == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *mockRepository) ListPermissions(ctx context.Context) ([]Permission, error) {
	var all []Permission
	for _, p := range m.permissions {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (m *mockRepository) GetPermissionByName(ctx context.Context, name string) (Permission, error) {
	for _, p := range m.permissions {
		if p.Name == name {
			return p, nil
		}
	}
	return Permission{}, shared.ErrNotFound
}

func (m *mockRepository) CreatePermission(ctx context.Context, name, description string) (Permission, error) {
	for _, p := range m.permissions {
		if p.Name == name {
			return Permission{}, shared.ErrConflict
		}
	}
	p := Permission{ID: m.nextPermID, Name: name, Description: description}
	m.permissions[p.ID] = p
	m.nextPermID++
	return p, nil
}

func (m *mockRepository) ListRolePermissions(ctx context.Context, roleID int64) ([]Permission, error) {
	var perms []Permission
	for _, pid := range m.rolePerms[roleID] {
		if p, ok := m.permissions[pid]; ok {
			perms = append(perms, p)
		}
	}
	return perms, nil
}

func (m *mockRepository) ReplaceRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	for _, pid := range permissionIDs {
		if _, ok := m.permissions[pid]; !ok {
			return shared.ErrValidation
		}
	}
	m.rolePerms[roleID] = append([]int64(nil), permissionIDs...)
	return nil
}

func (m *mockRepository) RoleIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	if m.roleIDsErr != nil {
		return nil, m.roleIDsErr
	}
	return m.userRoles[userID], nil
}

func (m *mockRepository) PermissionNamesForRoles(ctx context.Context, roleIDs []int64) ([]string, error) {
	if m.permNamesErr != nil {
		return nil, m.permNamesErr
	}
	var names []string
	for _, rid := range roleIDs {
		for _, pid := range m.rolePerms[rid] {
			if p, ok := m.permissions[pid]; ok {
				names = append(names, p.Name)
			}
		}
	}
	return names, nil
}

func (m *mockRepository) FindUserIDByEmail(ctx context.Context, email string) (int64, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return id, nil
}

func (m *mockRepository) EnsureRole(ctx context.Context, name string) (Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return m.CreateRole(ctx, name, "")
}

func (m *mockRepository) EnsureUser(ctx context.Context, email, name, passwordHash string) (int64, error) {
	if id, ok := m.usersByEmail[email]; ok {
		return id, nil
	}
	id := m.nextUserID
	m.nextUserID++
	m.usersByEmail[email] = id
	return id, nil
}

func (m *mockRepository) AssignRoleToUser(ctx context.Context, userID, roleID int64) error {
	for _, rid := range m.userRoles[userID] {
		if rid == roleID {
			return nil
		}
	}
	m.userRoles[userID] = append(m.userRoles[userID], roleID)
	return nil
}

var _ RepositoryPort = (*mockRepository)(nil)

// helpers

func (m *mockRepository) addUser(email string, roleIDs ...int64) int64 {
	id := m.nextUserID
	m.nextUserID++
	m.usersByEmail[email] = id
	m.userRoles[id] = roleIDs
	return id
}

func (m *mockRepository) addRoleWithPerms(name string, perms ...string) int64 {
	role, _ := m.CreateRole(context.Background(), name, "")
	var ids []int64
	for _, name := range perms {
		p, err := m.CreatePermission(context.Background(), name, "")
		if errors.Is(err, shared.ErrConflict) {
			p, _ = m.GetPermissionByName(context.Background(), name)
		}
		ids = append(ids, p.ID)
	}
	m.rolePerms[role.ID] = ids
	return role.ID
}

// ============================================================================
// EFFECTIVE PERMISSIONS
// ============================================================================

func TestEffectivePermissionsUnionAcrossRoles(t *testing.T) {
	repo := newMockRepository()
	viewer := repo.addRoleWithPerms("Viewer", "employee.view", "department.view")
	editor := repo.addRoleWithPerms("Editor", "employee.edit")
	// Editor shares employee.view with Viewer.
	p, _ := repo.GetPermissionByName(context.Background(), "employee.view")
	repo.rolePerms[editor] = append(repo.rolePerms[editor], p.ID)

	userID := repo.addUser("pat@example.com", viewer, editor)

	svc := NewService(repo)
	perms, err := svc.EffectivePermissions(context.Background(), userID)
	require.NoError(t, err)
	sort.Strings(perms)
	assert.Equal(t, []string{"department.view", "employee.edit", "employee.view"}, perms)
}

func TestEffectivePermissionsNoRolesIsEmptyNotError(t *testing.T) {
	repo := newMockRepository()
	userID := repo.addUser("lonely@example.com")

	svc := NewService(repo)
	perms, err := svc.EffectivePermissions(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestEffectivePermissionsUnknownUser(t *testing.T) {
	svc := NewService(newMockRepository())
	perms, err := svc.EffectivePermissions(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestEffectivePermissionsLowercasesNames(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Mixed", "Employee.View", "EMPLOYEE.DELETE")
	userID := repo.addUser("case@example.com", roleID)

	svc := NewService(repo)
	perms, err := svc.EffectivePermissions(context.Background(), userID)
	require.NoError(t, err)
	sort.Strings(perms)
	assert.Equal(t, []string{"employee.delete", "employee.view"}, perms)
}

// ============================================================================
// ROLE LIFECYCLE
// ============================================================================

func TestCreateRoleRejectsEmptyName(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.CreateRole(context.Background(), "   ", "")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRoleDuplicate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	_, err := svc.CreateRole(context.Background(), "Auditor", "")
	require.NoError(t, err)
	_, err = svc.CreateRole(context.Background(), "Auditor", "")
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteRoleRefusesAdmin(t *testing.T) {
	repo := newMockRepository()
	admin, _ := repo.CreateRole(context.Background(), AdminRole, "")

	svc := NewService(repo)
	err := svc.DeleteRole(context.Background(), admin.ID)
	assert.ErrorIs(t, err, shared.ErrConflict)
	_, ok := repo.roles[admin.ID]
	assert.True(t, ok, "admin role must survive the delete attempt")
}

func TestDeleteRoleRefusesWhenInUse(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Manager", "leave.view.all")
	repo.addUser("boss@example.com", roleID)

	svc := NewService(repo)
	err := svc.DeleteRole(context.Background(), roleID)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteRoleSucceedsWhenUnused(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Temp", "task.view")

	svc := NewService(repo)
	require.NoError(t, svc.DeleteRole(context.Background(), roleID))
	err := svc.DeleteRole(context.Background(), roleID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ============================================================================
// PERMISSION ASSIGNMENT
// ============================================================================

func TestAssignPermissionsReplacesNotMerges(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer", "employee.view", "department.view")
	extra, _ := repo.CreatePermission(context.Background(), "skill.view", "")

	svc := NewService(repo)
	require.NoError(t, svc.AssignPermissions(context.Background(), roleID, []int64{extra.ID}))

	perms, err := svc.RolePermissions(context.Background(), roleID)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "skill.view", perms[0].Name)
}

func TestAssignPermissionsDeduplicatesInput(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer")
	p, _ := repo.CreatePermission(context.Background(), "employee.view", "")

	svc := NewService(repo)
	require.NoError(t, svc.AssignPermissions(context.Background(), roleID, []int64{p.ID, p.ID, p.ID}))
	assert.Len(t, repo.rolePerms[roleID], 1)
}

func TestAssignPermissionsUnknownRole(t *testing.T) {
	svc := NewService(newMockRepository())
	err := svc.AssignPermissions(context.Background(), 42, []int64{1})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAssignPermissionsDanglingID(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer")

	svc := NewService(repo)
	err := svc.AssignPermissions(context.Background(), roleID, []int64{999})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestEnsurePermissionIdempotent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	first, err := svc.EnsurePermission(context.Background(), "report.view", "reports")
	require.NoError(t, err)
	second, err := svc.EnsurePermission(context.Background(), "report.view", "reports")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.permissions, 1)
}

// ============================================================================
// IDENTITY RESOLUTION
// ============================================================================

func TestResolveUserIDPrefersSubject(t *testing.T) {
	repo := newMockRepository()
	repo.usersByEmail["pat@example.com"] = 7

	svc := NewService(repo)
	id, err := svc.ResolveUserID(context.Background(), &shared.Principal{UserID: 3, Email: "pat@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestResolveUserIDFallsBackToEmail(t *testing.T) {
	repo := newMockRepository()
	repo.usersByEmail["pat@example.com"] = 7

	svc := NewService(repo)
	id, err := svc.ResolveUserID(context.Background(), &shared.Principal{Email: "Pat@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestResolveUserIDNoMatch(t *testing.T) {
	svc := NewService(newMockRepository())

	id, err := svc.ResolveUserID(context.Background(), &shared.Principal{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Zero(t, id)

	id, err = svc.ResolveUserID(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, id)
}

// ============================================================================
// BOOTSTRAP
// ============================================================================

func TestBootstrapIdempotent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	cfg := BootstrapConfig{AdminEmail: "admin@example.com", AdminName: "Admin", AdminPassword: "s3cret!pw"}

	require.NoError(t, svc.Bootstrap(context.Background(), cfg))
	rolesAfterFirst := len(repo.roles)
	permsAfterFirst := len(repo.permissions)
	usersAfterFirst := len(repo.usersByEmail)

	require.NoError(t, svc.Bootstrap(context.Background(), cfg))
	assert.Equal(t, rolesAfterFirst, len(repo.roles))
	assert.Equal(t, permsAfterFirst, len(repo.permissions))
	assert.Equal(t, usersAfterFirst, len(repo.usersByEmail))
}

func TestBootstrapGrantsAdminFullCatalog(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	require.NoError(t, svc.Bootstrap(context.Background(), BootstrapConfig{
		AdminEmail: "admin@example.com", AdminPassword: "s3cret!pw",
	}))

	adminID := repo.usersByEmail["admin@example.com"]
	perms, err := svc.EffectivePermissions(context.Background(), adminID)
	require.NoError(t, err)
	assert.Len(t, perms, len(shared.AllPermissions()))
}

func TestBootstrapRemapsAdminAfterCatalogShrink(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	cfg := BootstrapConfig{AdminEmail: "admin@example.com", AdminPassword: "s3cret!pw"}
	require.NoError(t, svc.Bootstrap(context.Background(), cfg))

	// A stray permission granted by hand gets replaced on the next run.
	stray, _ := repo.CreatePermission(context.Background(), "zz.custom", "")
	var adminRoleID int64
	for id, r := range repo.roles {
		if r.Name == AdminRole {
			adminRoleID = id
		}
	}
	repo.rolePerms[adminRoleID] = []int64{stray.ID}

	require.NoError(t, svc.Bootstrap(context.Background(), cfg))
	assert.Len(t, repo.rolePerms[adminRoleID], len(shared.AllPermissions())+1)
}
