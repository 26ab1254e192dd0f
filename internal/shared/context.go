package shared

import (
	"context"
	"time"
)

type principalContextKey struct{}
type permissionsContextKey struct{}

// Principal describes the authenticated caller extracted from the bearer token.
type Principal struct {
	UserID    int64
	Subject   string
	Email     string
	Name      string
	TokenID   string
	Roles     []string
	ExpiresAt time.Time
}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context. Nil means the
// request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

// ContextWithPermissions stores the resolved permission set in context.
func ContextWithPermissions(ctx context.Context, set PermissionSet) context.Context {
	return context.WithValue(ctx, permissionsContextKey{}, set)
}

// PermissionsFromContext extracts the permission set computed by the resolver
// stage. An absent key behaves exactly like an empty set, so consumers never
// distinguish the two.
func PermissionsFromContext(ctx context.Context) PermissionSet {
	set, _ := ctx.Value(permissionsContextKey{}).(PermissionSet)
	return set
}
