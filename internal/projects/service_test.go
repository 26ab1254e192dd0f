package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/shared"
)

type mockProjectRepo struct {
	projects map[int64]Project
	names    map[string]int64
	hasTasks map[int64]bool
	nextID   int64
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{
		projects: make(map[int64]Project),
		names:    make(map[string]int64),
		hasTasks: make(map[int64]bool),
		nextID:   1,
	}
}

func (m *mockProjectRepo) List(ctx context.Context, filters shared.ListFilters) ([]Project, int, error) {
	var all []Project
	for _, p := range m.projects {
		all = append(all, p)
	}
	return all, len(all), nil
}

func (m *mockProjectRepo) Get(ctx context.Context, id int64) (Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return Project{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockProjectRepo) Create(ctx context.Context, in ProjectInput, createdBy string) (Project, error) {
	if _, ok := m.names[in.Name]; ok {
		return Project{}, shared.ErrConflict
	}
	p := Project{
		ID:          m.nextID,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedBy:   createdBy,
	}
	m.nextID++
	m.projects[p.ID] = p
	m.names[p.Name] = p.ID
	return p, nil
}

func (m *mockProjectRepo) Update(ctx context.Context, id int64, in ProjectInput) (Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return Project{}, shared.ErrNotFound
	}
	if other, ok := m.names[in.Name]; ok && other != id {
		return Project{}, shared.ErrConflict
	}
	delete(m.names, p.Name)
	p.Name = in.Name
	p.Description = in.Description
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	m.projects[id] = p
	m.names[p.Name] = id
	return p, nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id int64) error {
	p, ok := m.projects[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.projects, id)
	delete(m.names, p.Name)
	return nil
}

func (m *mockProjectRepo) HasTasks(ctx context.Context, id int64) (bool, error) {
	return m.hasTasks[id], nil
}

var _ RepositoryPort = (*mockProjectRepo)(nil)

func TestCreateProjectRequiresName(t *testing.T) {
	svc := NewService(newMockProjectRepo())
	_, err := svc.Create(context.Background(), ProjectInput{Name: "   "}, "hr@example.com")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateProjectRejectsInvertedDates(t *testing.T) {
	svc := NewService(newMockProjectRepo())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -7)
	_, err := svc.Create(context.Background(), ProjectInput{Name: "Phoenix", StartDate: &start, EndDate: &end}, "")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateProjectDefaultsCreator(t *testing.T) {
	svc := NewService(newMockProjectRepo())
	p, err := svc.Create(context.Background(), ProjectInput{Name: "Phoenix"}, "")
	require.NoError(t, err)
	assert.Equal(t, "system", p.CreatedBy)
}

func TestCreateProjectDuplicateName(t *testing.T) {
	svc := NewService(newMockProjectRepo())
	_, err := svc.Create(context.Background(), ProjectInput{Name: "Phoenix"}, "hr@example.com")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ProjectInput{Name: "Phoenix"}, "hr@example.com")
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteProjectWithTasks(t *testing.T) {
	repo := newMockProjectRepo()
	svc := NewService(repo)
	p, err := svc.Create(context.Background(), ProjectInput{Name: "Phoenix"}, "hr@example.com")
	require.NoError(t, err)
	repo.hasTasks[p.ID] = true

	err = svc.Delete(context.Background(), p.ID)
	assert.ErrorIs(t, err, shared.ErrConflict)

	// Still fetchable after the refused delete.
	_, err = svc.Get(context.Background(), p.ID)
	assert.NoError(t, err)

	repo.hasTasks[p.ID] = false
	require.NoError(t, svc.Delete(context.Background(), p.ID))
	_, err = svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
