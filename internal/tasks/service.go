package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service holds task business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters TaskFilters) (shared.PagedResult[Task], error) {
	if filters.Status != "" {
		status := NormalizeStatus(filters.Status)
		if status == "" {
			return shared.PagedResult[Task]{}, fmt.Errorf("%w: unknown task status %q", shared.ErrValidation, filters.Status)
		}
		filters.Status = status
	}
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return shared.PagedResult[Task]{}, fmt.Errorf("list tasks: %w", err)
	}
	return shared.NewPagedResult(list, filters.ListFilters, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, in TaskInput, createdBy string) (Task, error) {
	if err := validateInput(&in); err != nil {
		return Task{}, err
	}
	if createdBy == "" {
		createdBy = "system"
	}
	id, err := s.repo.Create(ctx, in, createdBy)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			return Task{}, fmt.Errorf("%w: unknown project or employee reference", shared.ErrValidation)
		}
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in TaskInput) (Task, error) {
	if err := validateInput(&in); err != nil {
		return Task{}, err
	}
	if err := s.repo.Update(ctx, id, in); err != nil {
		if errors.Is(err, shared.ErrValidation) {
			return Task{}, fmt.Errorf("%w: unknown project or employee reference", shared.ErrValidation)
		}
		return Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (Task, error) {
	normalized := NormalizeStatus(status)
	if normalized == "" {
		return Task{}, fmt.Errorf("%w: unknown task status %q", shared.ErrValidation, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, normalized); err != nil {
		return Task{}, fmt.Errorf("update task %d status: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func validateInput(in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: task title is required", shared.ErrValidation)
	}
	if in.ProjectID <= 0 {
		return fmt.Errorf("%w: project is required", shared.ErrValidation)
	}
	if in.AssignedTo <= 0 {
		return fmt.Errorf("%w: assignee is required", shared.ErrValidation)
	}
	if in.Status == "" {
		in.Status = StatusPending
	} else if in.Status = NormalizeStatus(in.Status); in.Status == "" {
		return fmt.Errorf("%w: unknown task status", shared.ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	} else if in.Priority = NormalizePriority(in.Priority); in.Priority == "" {
		return fmt.Errorf("%w: unknown task priority", shared.ErrValidation)
	}
	return nil
}
