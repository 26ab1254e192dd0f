package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service holds employee business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) (shared.PagedResult[Employee], error) {
	emps, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return shared.PagedResult[Employee]{}, fmt.Errorf("list employees: %w", err)
	}
	return shared.NewPagedResult(emps, filters, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	emp, err := s.repo.Get(ctx, id)
	if err != nil {
		return Employee{}, fmt.Errorf("get employee %d: %w", id, err)
	}
	return emp, nil
}

func (s *Service) Create(ctx context.Context, in EmployeeInput, createdBy string) (Employee, error) {
	if err := validateInput(&in); err != nil {
		return Employee{}, err
	}
	if createdBy == "" {
		createdBy = "system"
	}
	id, err := s.repo.Create(ctx, in, createdBy)
	if err != nil {
		return Employee{}, translateMutationError(err, "create employee")
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in EmployeeInput) (Employee, error) {
	if err := validateInput(&in); err != nil {
		return Employee{}, err
	}
	if err := s.repo.Update(ctx, id, in); err != nil {
		return Employee{}, translateMutationError(err, fmt.Sprintf("update employee %d", id))
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	return nil
}

func validateInput(in *EmployeeInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" {
		return fmt.Errorf("%w: full name is required", shared.ErrValidation)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if in.DepartmentID <= 0 {
		return fmt.Errorf("%w: department is required", shared.ErrValidation)
	}
	if in.Salary < 0 {
		return fmt.Errorf("%w: salary cannot be negative", shared.ErrValidation)
	}
	seen := make(map[int64]struct{}, len(in.SkillIDs))
	deduped := in.SkillIDs[:0]
	for _, id := range in.SkillIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	in.SkillIDs = deduped
	return nil
}

func translateMutationError(err error, op string) error {
	switch {
	case errors.Is(err, shared.ErrConflict):
		return fmt.Errorf("%w: employee email already in use", shared.ErrConflict)
	case errors.Is(err, shared.ErrValidation):
		return fmt.Errorf("%w: unknown department or skill reference", shared.ErrValidation)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
