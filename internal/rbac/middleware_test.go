package rbac

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian-hr/meridian/internal/shared"
)

func protectedHandler(t *testing.T, hits *int) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func newGateMiddleware(repo *mockRepository) Middleware {
	return Middleware{Service: NewService(repo)}
}

// runGated sends a request through ResolvePermissions then Require(perm),
// optionally with a principal attached the way the authenticator would.
func runGated(t *testing.T, mw Middleware, perm string, principal *shared.Principal) (*httptest.ResponseRecorder, int) {
	t.Helper()
	hits := 0
	handler := mw.ResolvePermissions(mw.Require(perm)(protectedHandler(t, &hits)))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if principal != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, hits
}

func TestGateDeniesAnonymous(t *testing.T) {
	mw := newGateMiddleware(newMockRepository())
	rec, hits := runGated(t, mw, "employee.view", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if hits != 0 {
		t.Fatalf("handler must not run for anonymous caller")
	}
}

func TestGateDeniesMissingPermission(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer", "employee.view")
	userID := repo.addUser("viewer@example.com", roleID)

	mw := newGateMiddleware(repo)
	rec, hits := runGated(t, mw, "employee.edit", &shared.Principal{UserID: userID})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if hits != 0 {
		t.Fatalf("handler must not run without the permission")
	}
}

func TestGateRejectsPrefixSimilarName(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer", "employee.view")
	userID := repo.addUser("viewer@example.com", roleID)

	mw := newGateMiddleware(repo)
	// employee.view must not satisfy employee.view.all: comparison is exact.
	rec, _ := runGated(t, mw, "employee.view.all", &shared.Principal{UserID: userID})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for prefix-similar permission, got %d", rec.Code)
	}
}

func TestGateAllowsHolder(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer", "employee.view")
	userID := repo.addUser("viewer@example.com", roleID)

	mw := newGateMiddleware(repo)
	rec, hits := runGated(t, mw, "employee.view", &shared.Principal{UserID: userID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if hits != 1 {
		t.Fatalf("handler should run exactly once, ran %d times", hits)
	}
}

func TestGateComparisonIsCaseInsensitive(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer", "Employee.View")
	userID := repo.addUser("viewer@example.com", roleID)

	mw := newGateMiddleware(repo)
	rec, _ := runGated(t, mw, "EMPLOYEE.VIEW", &shared.Principal{UserID: userID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for case-insensitive match, got %d", rec.Code)
	}
}

func TestGateDenyBodiesAreIdentical(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer", "department.view")
	userID := repo.addUser("viewer@example.com", roleID)
	mw := newGateMiddleware(repo)

	anonRec, _ := runGated(t, mw, "employee.view", nil)
	underRec, _ := runGated(t, mw, "employee.view", &shared.Principal{UserID: userID})

	anonBody, _ := io.ReadAll(anonRec.Body)
	underBody, _ := io.ReadAll(underRec.Body)
	if string(anonBody) != string(underBody) {
		t.Fatalf("deny responses must be indistinguishable:\n%s\nvs\n%s", anonBody, underBody)
	}
	if anonRec.Code != underRec.Code {
		t.Fatalf("deny status codes differ: %d vs %d", anonRec.Code, underRec.Code)
	}
}

func TestResolverFailureFoldsIntoEmptySet(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Viewer", "employee.view")
	userID := repo.addUser("viewer@example.com", roleID)
	repo.roleIDsErr = context.DeadlineExceeded

	mw := newGateMiddleware(repo)
	rec, _ := runGated(t, mw, "employee.view", &shared.Principal{UserID: userID})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("store failure must fail closed, got %d", rec.Code)
	}
}

func TestResolverRunsOncePerRequest(t *testing.T) {
	repo := newMockRepository()
	roleID := repo.addRoleWithPerms("Manager", "leave.view.all", "leave.update.status")
	userID := repo.addUser("boss@example.com", roleID)

	countingRepo := &resolveCountingRepo{mockRepository: repo}
	mw := Middleware{Service: NewService(countingRepo)}

	hits := 0
	// Two stacked gates read the same context set; the store is hit once.
	handler := mw.ResolvePermissions(
		mw.Require("leave.view.all")(
			mw.Require("leave.update.status")(protectedHandler(t, &hits))))

	req := httptest.NewRequest(http.MethodGet, "/leave/all", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: userID}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if countingRepo.resolveCalls != 1 {
		t.Fatalf("expected exactly one store resolution, got %d", countingRepo.resolveCalls)
	}
}

type resolveCountingRepo struct {
	*mockRepository
	resolveCalls int
}

func (r *resolveCountingRepo) RoleIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	r.resolveCalls++
	return r.mockRepository.RoleIDsForUser(ctx, userID)
}

func TestRequireAuthenticated(t *testing.T) {
	mw := newGateMiddleware(newMockRepository())
	hits := 0
	handler := mw.RequireAuthenticated(protectedHandler(t, &hits))

	req := httptest.NewRequest(http.MethodGet, "/my-permissions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous caller, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/my-permissions", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 1}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for authenticated caller, got %d", rec.Code)
	}
}
