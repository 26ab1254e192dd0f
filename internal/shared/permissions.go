package shared

import "strings"

// Permission names used across the platform. Gates compare these
// case-insensitively against the caller's resolved set.
const (
	PermRoleView   = "role.view"
	PermRoleCreate = "role.create"
	PermRoleManage = "role.manage"
	PermRoleDelete = "role.delete"

	PermUserView   = "user.view"
	PermUserCreate = "user.create"
	PermUserEdit   = "user.edit"
	PermUserDelete = "user.delete"

	PermEmployeeView   = "employee.view"
	PermEmployeeCreate = "employee.create"
	PermEmployeeEdit   = "employee.edit"
	PermEmployeeDelete = "employee.delete"

	PermDepartmentView   = "department.view"
	PermDepartmentCreate = "department.create"
	PermDepartmentEdit   = "department.edit"
	PermDepartmentDelete = "department.delete"

	PermSkillView   = "skill.view"
	PermSkillCreate = "skill.create"
	PermSkillEdit   = "skill.edit"
	PermSkillDelete = "skill.delete"

	PermProjectView   = "project.view"
	PermProjectCreate = "project.create"
	PermProjectEdit   = "project.edit"
	PermProjectDelete = "project.delete"

	PermTaskView   = "task.view"
	PermTaskCreate = "task.create"
	PermTaskEdit   = "task.edit"
	PermTaskDelete = "task.delete"

	PermLeaveCreate       = "leave.create"
	PermLeaveView         = "leave.view"
	PermLeaveViewAll      = "leave.view.all"
	PermLeaveUpdate       = "leave.update"
	PermLeaveUpdateStatus = "leave.update.status"
	PermLeaveDelete       = "leave.delete"
)

// AllPermissions lists the full permission catalog seeded at bootstrap.
func AllPermissions() []string {
	return []string{
		PermRoleView, PermRoleCreate, PermRoleManage, PermRoleDelete,
		PermUserView, PermUserCreate, PermUserEdit, PermUserDelete,
		PermEmployeeView, PermEmployeeCreate, PermEmployeeEdit, PermEmployeeDelete,
		PermDepartmentView, PermDepartmentCreate, PermDepartmentEdit, PermDepartmentDelete,
		PermSkillView, PermSkillCreate, PermSkillEdit, PermSkillDelete,
		PermProjectView, PermProjectCreate, PermProjectEdit, PermProjectDelete,
		PermTaskView, PermTaskCreate, PermTaskEdit, PermTaskDelete,
		PermLeaveCreate, PermLeaveView, PermLeaveViewAll,
		PermLeaveUpdate, PermLeaveUpdateStatus, PermLeaveDelete,
	}
}

// PermissionSet is the per-request snapshot of the caller's permissions,
// keyed by lowercased name. A nil set is valid and contains nothing.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from permission names, lowercasing and
// deduplicating along the way.
func NewPermissionSet(names []string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(strings.ToLower(n))
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether the set contains name, compared case-insensitively
// and by exact match: holding "employee.view" never satisfies
// "employee.edit".
func (s PermissionSet) Has(name string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the set's contents as an unordered slice.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	return names
}
