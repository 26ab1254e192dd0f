package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service holds project business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) (shared.PagedResult[Project], error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return shared.PagedResult[Project]{}, fmt.Errorf("list projects: %w", err)
	}
	return shared.NewPagedResult(list, filters, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in ProjectInput, createdBy string) (Project, error) {
	if err := validateInput(&in); err != nil {
		return Project{}, err
	}
	if createdBy == "" {
		createdBy = "system"
	}
	p, err := s.repo.Create(ctx, in, createdBy)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return Project{}, fmt.Errorf("%w: project already exists", shared.ErrConflict)
		}
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, in ProjectInput) (Project, error) {
	if err := validateInput(&in); err != nil {
		return Project{}, err
	}
	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return Project{}, fmt.Errorf("%w: project already exists", shared.ErrConflict)
		}
		return Project{}, fmt.Errorf("update project %d: %w", id, err)
	}
	return p, nil
}

// Delete refuses to remove a project that still has tasks.
func (s *Service) Delete(ctx context.Context, id int64) error {
	inUse, err := s.repo.HasTasks(ctx, id)
	if err != nil {
		return fmt.Errorf("check project tasks: %w", err)
	}
	if inUse {
		return fmt.Errorf("%w: project has tasks assigned", shared.ErrConflict)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	return nil
}

func validateInput(in *ProjectInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: project name is required", shared.ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: end date cannot precede start date", shared.ErrValidation)
	}
	return nil
}
