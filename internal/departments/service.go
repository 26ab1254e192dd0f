package departments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service holds department business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Department, error) {
	deps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	if deps == nil {
		deps = []Department{}
	}
	return deps, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Department, error) {
	dep, err := s.repo.Get(ctx, id)
	if err != nil {
		return Department{}, fmt.Errorf("get department %d: %w", id, err)
	}
	return dep, nil
}

func (s *Service) Create(ctx context.Context, name string) (Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Department{}, fmt.Errorf("%w: department name is required", shared.ErrValidation)
	}
	dep, err := s.repo.Create(ctx, name)
	if err != nil {
		if isConflict(err) {
			return Department{}, fmt.Errorf("%w: department already exists", shared.ErrConflict)
		}
		return Department{}, fmt.Errorf("create department: %w", err)
	}
	return dep, nil
}

func (s *Service) Update(ctx context.Context, id int64, name string) (Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Department{}, fmt.Errorf("%w: department name is required", shared.ErrValidation)
	}
	dep, err := s.repo.Update(ctx, id, name)
	if err != nil {
		if isConflict(err) {
			return Department{}, fmt.Errorf("%w: department already exists", shared.ErrConflict)
		}
		return Department{}, fmt.Errorf("update department %d: %w", id, err)
	}
	return dep, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isConflict(err) {
			return fmt.Errorf("%w: department has assigned employees", shared.ErrConflict)
		}
		return fmt.Errorf("delete department %d: %w", id, err)
	}
	return nil
}

// EnsureDefaults seeds the default departments. Safe to run on every start.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, name := range DefaultDepartments() {
		if err := s.repo.Ensure(ctx, name); err != nil {
			return fmt.Errorf("ensure department %q: %w", name, err)
		}
	}
	return nil
}

func isConflict(err error) bool {
	return errors.Is(err, shared.ErrConflict)
}
