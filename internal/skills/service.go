package skills

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service holds skill business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Skill, error) {
	skills, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	if skills == nil {
		skills = []Skill{}
	}
	return skills, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Skill, error) {
	sk, err := s.repo.Get(ctx, id)
	if err != nil {
		return Skill{}, fmt.Errorf("get skill %d: %w", id, err)
	}
	return sk, nil
}

func (s *Service) Create(ctx context.Context, name string) (Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Skill{}, fmt.Errorf("%w: skill name is required", shared.ErrValidation)
	}
	sk, err := s.repo.Create(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return Skill{}, fmt.Errorf("%w: skill already exists", shared.ErrConflict)
		}
		return Skill{}, fmt.Errorf("create skill: %w", err)
	}
	return sk, nil
}

func (s *Service) Update(ctx context.Context, id int64, name string) (Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Skill{}, fmt.Errorf("%w: skill name is required", shared.ErrValidation)
	}
	sk, err := s.repo.Update(ctx, id, name)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return Skill{}, fmt.Errorf("%w: skill already exists", shared.ErrConflict)
		}
		return Skill{}, fmt.Errorf("update skill %d: %w", id, err)
	}
	return sk, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return fmt.Errorf("%w: skill is assigned to employees", shared.ErrConflict)
		}
		return fmt.Errorf("delete skill %d: %w", id, err)
	}
	return nil
}

// EnsureDefaults seeds the default skills. Safe to run on every start.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, name := range DefaultSkills() {
		if err := s.repo.Ensure(ctx, name); err != nil {
			return fmt.Errorf("ensure skill %q: %w", name, err)
		}
	}
	return nil
}
