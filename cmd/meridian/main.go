package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-hr/meridian/internal/app"
	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/departments"
	"github.com/meridian-hr/meridian/internal/employees"
	"github.com/meridian-hr/meridian/internal/leave"
	"github.com/meridian-hr/meridian/internal/observability"
	"github.com/meridian-hr/meridian/internal/platform/cache"
	"github.com/meridian-hr/meridian/internal/platform/db"
	"github.com/meridian-hr/meridian/internal/projects"
	"github.com/meridian-hr/meridian/internal/rbac"
	"github.com/meridian-hr/meridian/internal/skills"
	"github.com/meridian-hr/meridian/internal/tasks"
	"github.com/meridian-hr/meridian/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	denylist := auth.NewDenylist(redisClient)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens, denylist)
	authHandler := auth.NewHandler(logger, authService)
	authenticator := auth.Authenticator{Tokens: tokens, Denylist: denylist, Logger: logger}

	metrics := observability.NewMetrics()

	rbacRepo := rbac.NewRepository(dbpool)
	rbacService := rbac.NewService(rbacRepo)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger, Metrics: metrics}
	rolesHandler := rbac.NewHandler(logger, rbacService, rbacMiddleware)

	usersService := users.NewService(users.NewRepository(dbpool))
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	departmentsService := departments.NewService(departments.NewRepository(dbpool))
	departmentsHandler := departments.NewHandler(logger, departmentsService, rbacMiddleware)

	skillsService := skills.NewService(skills.NewRepository(dbpool))
	skillsHandler := skills.NewHandler(logger, skillsService, rbacMiddleware)

	employeesService := employees.NewService(employees.NewRepository(dbpool))
	employeesHandler := employees.NewHandler(logger, employeesService, rbacMiddleware)

	projectsService := projects.NewService(projects.NewRepository(dbpool))
	projectsHandler := projects.NewHandler(logger, projectsService, rbacMiddleware)

	tasksService := tasks.NewService(tasks.NewRepository(dbpool))
	tasksHandler := tasks.NewHandler(logger, tasksService, rbacMiddleware)

	leaveService := leave.NewService(leave.NewRepository(dbpool))
	leaveHandler := leave.NewHandler(logger, leaveService, rbacMiddleware)

	// Seed the catalog and the admin account before accepting traffic.
	if err := rbacService.Bootstrap(ctx, rbac.BootstrapConfig{
		AdminEmail:    cfg.BootstrapAdminEmail,
		AdminName:     "Administrator",
		AdminPassword: cfg.BootstrapAdminPassword,
	}); err != nil {
		logger.Error("bootstrap rbac", slog.Any("error", err))
		os.Exit(1)
	}

	seed, seedCtx := errgroup.WithContext(ctx)
	seed.Go(func() error { return departmentsService.EnsureDefaults(seedCtx) })
	seed.Go(func() error { return skillsService.EnsureDefaults(seedCtx) })
	if err := seed.Wait(); err != nil {
		logger.Error("seed defaults", slog.Any("error", err))
		os.Exit(1)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Authenticator:      authenticator,
		RBACMiddleware:     rbacMiddleware,
		AuthHandler:        authHandler,
		RolesHandler:       rolesHandler,
		UsersHandler:       usersHandler,
		DepartmentsHandler: departmentsHandler,
		SkillsHandler:      skillsHandler,
		EmployeesHandler:   employeesHandler,
		ProjectsHandler:    projectsHandler,
		TasksHandler:       tasksHandler,
		LeaveHandler:       leaveHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
