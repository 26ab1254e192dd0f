package leave

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian/internal/rbac"
	"github.com/meridian-hr/meridian/internal/shared"
)

func newLeaveServer(repo RepositoryPort) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(repo), rbac.Middleware{})

	r := chi.NewRouter()
	r.Route("/api/leave", h.MountRoutes)
	return r
}

// doLeaveRequest injects the principal and permission set the way the
// authenticator and resolver stages would.
func doLeaveRequest(t *testing.T, handler http.Handler, method, path string, principal *shared.Principal, perms ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	ctx := req.Context()
	if principal != nil {
		ctx = shared.ContextWithPrincipal(ctx, principal)
	}
	ctx = shared.ContextWithPermissions(ctx, shared.NewPermissionSet(perms))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func seedRequest(repo *mockLeaveRepo, userID int64) Request {
	req := Request{
		ID:        repo.nextID,
		UserID:    userID,
		UserName:  "Sam Field",
		LeaveType: "Vacation",
		FromDate:  time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		ToDate:    time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
		Status:    StatusPending,
	}
	repo.requests[req.ID] = req
	repo.nextID++
	return req
}

func TestGetByIDNeedsOnlyAuthentication(t *testing.T) {
	repo := newMockLeaveRepo()
	seedRequest(repo, 3)
	server := newLeaveServer(repo)

	// Any authenticated caller may fetch by id, even with no permissions.
	principal := &shared.Principal{UserID: 5, Email: "viewer@example.com"}
	rec := doLeaveRequest(t, server, http.MethodGet, "/api/leave/1", principal)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for authenticated caller, got %d: %s", rec.Code, rec.Body.String())
	}

	anonymous := doLeaveRequest(t, server, http.MethodGet, "/api/leave/1", nil)
	if anonymous.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous caller, got %d", anonymous.Code)
	}
}

func TestMyListStillGated(t *testing.T) {
	repo := newMockLeaveRepo()
	seedRequest(repo, 5)
	server := newLeaveServer(repo)

	principal := &shared.Principal{UserID: 5, Email: "viewer@example.com"}
	rec := doLeaveRequest(t, server, http.MethodGet, "/api/leave/my", principal)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without leave.view, got %d", rec.Code)
	}

	rec = doLeaveRequest(t, server, http.MethodGet, "/api/leave/my", principal, shared.PermLeaveView)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with leave.view, got %d: %s", rec.Code, rec.Body.String())
	}
}
