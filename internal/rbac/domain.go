package rbac

import "time"

// AdminRole is the protected role name. It cannot be deleted and is
// re-mapped to the full permission catalog on every bootstrap run.
const AdminRole = "Admin"

// Role represents a high-level permission grouping.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Permission represents an atomic capability named by a dotted string.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Assignment ties a permission to a role. Pure association: no surrogate
// id, replaced wholesale when a role's permission set is reassigned.
type Assignment struct {
	RoleID       int64
	PermissionID int64
}
