package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/departments"
	"github.com/meridian-hr/meridian/internal/employees"
	"github.com/meridian-hr/meridian/internal/leave"
	"github.com/meridian-hr/meridian/internal/observability"
	"github.com/meridian-hr/meridian/internal/projects"
	"github.com/meridian-hr/meridian/internal/rbac"
	"github.com/meridian-hr/meridian/internal/skills"
	"github.com/meridian-hr/meridian/internal/tasks"
	"github.com/meridian-hr/meridian/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Authenticator      auth.Authenticator
	RBACMiddleware     rbac.Middleware
	AuthHandler        *auth.Handler
	RolesHandler       *rbac.Handler
	UsersHandler       *users.Handler
	DepartmentsHandler *departments.Handler
	SkillsHandler      *skills.Handler
	EmployeesHandler   *employees.Handler
	ProjectsHandler    *projects.Handler
	TasksHandler       *tasks.Handler
	LeaveHandler       *leave.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults. Every request
// passes the authenticator and the permission resolver before reaching the
// gated API routes, so handlers never resolve permissions themselves.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.Authenticator.Middleware)
	r.Use(params.RBACMiddleware.ResolvePermissions)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)
		api.Route("/roles", params.RolesHandler.MountRoutes)
		api.Route("/admin", params.UsersHandler.MountRoutes)
		api.Route("/departments", params.DepartmentsHandler.MountRoutes)
		api.Route("/skills", params.SkillsHandler.MountRoutes)
		api.Route("/employees", params.EmployeesHandler.MountRoutes)
		api.Route("/projects", params.ProjectsHandler.MountRoutes)
		api.Route("/tasks", params.TasksHandler.MountRoutes)
		api.Route("/leave", params.LeaveHandler.MountRoutes)
	})

	return r
}
