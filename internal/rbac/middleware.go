package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-hr/meridian/internal/observability"
	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/shared"
)

// Middleware wires the permission resolver stage and the per-route
// authorization gates.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// ResolvePermissions is the pipeline stage that computes the caller's
// permission set exactly once per request and stores it in the request
// context. It must be mounted after authentication and before any gate;
// gates only read the context and never query the store. Resolution
// failures fold into the empty set so the gates stay branch-free and
// fail closed.
func (m Middleware) ResolvePermissions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		set := shared.PermissionSet{}

		if principal := shared.PrincipalFromContext(ctx); principal != nil {
			userID, err := m.Service.ResolveUserID(ctx, principal)
			if err != nil {
				m.logError("resolve user id", err)
			} else if userID > 0 {
				perms, err := m.Service.EffectivePermissions(ctx, userID)
				if err != nil {
					m.logError("resolve permissions", err)
				} else {
					set = shared.NewPermissionSet(perms)
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(shared.ContextWithPermissions(ctx, set)))
	})
}

// Require returns a gate that denies the request unless the caller is
// authenticated and holds the named permission. Each Require holds
// exactly one permission; stacking several on a route means the caller
// must satisfy every one, since any gate can reject independently.
// Comparison is case-insensitive exact match. The deny response carries
// no hint about which permission was required.
func (m Middleware) Require(permission string) func(http.Handler) http.Handler {
	normalized := strings.TrimSpace(strings.ToLower(permission))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if normalized == "" {
				next.ServeHTTP(w, r)
				return
			}
			if shared.PrincipalFromContext(r.Context()) == nil {
				m.deny(w)
				return
			}
			if !shared.PermissionsFromContext(r.Context()).Has(normalized) {
				m.deny(w)
				return
			}
			m.Metrics.ObserveAuthzDecision("allow")
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated denies anonymous callers without demanding any
// particular permission.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.PrincipalFromContext(r.Context()) == nil {
			m.deny(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m Middleware) deny(w http.ResponseWriter) {
	m.Metrics.ObserveAuthzDecision("deny")
	httpx.Forbidden(w)
}

func (m Middleware) logError(msg string, err error) {
	if m.Logger != nil {
		m.Logger.Error(msg, slog.Any("error", err))
	}
}
