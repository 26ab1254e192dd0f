package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Authenticator verifies bearer tokens and attaches the principal to the
// request context. It never rejects a request on its own: anonymous and
// invalid-token requests simply proceed without a principal, and the
// authorization gate denies them later. This keeps the pipeline
// fail-closed without leaking why a credential was refused.
type Authenticator struct {
	Tokens   *TokenManager
	Denylist *Denylist
	Logger   *slog.Logger
}

// Middleware is the authentication stage of the request pipeline.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.Tokens.Verify(raw)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Debug("bearer token rejected", slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}

		revoked, err := a.Denylist.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			// Denylist unavailable: treat the token as revoked.
			if a.Logger != nil {
				a.Logger.Error("denylist check failed", slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		if revoked {
			next.ServeHTTP(w, r)
			return
		}

		principal := &shared.Principal{
			UserID:  claims.UserID(),
			Subject: claims.Subject,
			Email:   claims.EmailIdentifier(),
			Name:    claims.Name,
			TokenID: claims.ID,
			Roles:   claims.Roles,
		}
		if claims.ExpiresAt != nil {
			principal.ExpiresAt = claims.ExpiresAt.Time
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
