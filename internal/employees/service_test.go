package employees

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/shared"
)

type mockEmployeeRepo struct {
	employees map[int64]Employee
	emails    map[string]int64
	skills    map[int64]string
	nextID    int64
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{
		employees: make(map[int64]Employee),
		emails:    make(map[string]int64),
		skills:    map[int64]string{1: "Go", 2: "SQL", 3: "React"},
		nextID:    1,
	}
}

func (m *mockEmployeeRepo) List(ctx context.Context, filters shared.ListFilters) ([]Employee, int, error) {
	var all []Employee
	for _, e := range m.employees {
		all = append(all, e)
	}
	return all, len(all), nil
}

func (m *mockEmployeeRepo) Get(ctx context.Context, id int64) (Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return Employee{}, shared.ErrNotFound
	}
	return e, nil
}

func (m *mockEmployeeRepo) Create(ctx context.Context, in EmployeeInput, createdBy string) (int64, error) {
	if _, ok := m.emails[in.Email]; ok {
		return 0, shared.ErrConflict
	}
	for _, sid := range in.SkillIDs {
		if _, ok := m.skills[sid]; !ok {
			return 0, shared.ErrValidation
		}
	}
	e := Employee{
		ID:           m.nextID,
		FullName:     in.FullName,
		Email:        in.Email,
		Salary:       in.Salary,
		JoinedOn:     in.JoinedOn,
		DepartmentID: in.DepartmentID,
		SkillIDs:     in.SkillIDs,
		CreatedBy:    createdBy,
	}
	for _, sid := range in.SkillIDs {
		e.Skills = append(e.Skills, m.skills[sid])
	}
	m.nextID++
	m.employees[e.ID] = e
	m.emails[e.Email] = e.ID
	return e.ID, nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, id int64, in EmployeeInput) error {
	e, ok := m.employees[id]
	if !ok {
		return shared.ErrNotFound
	}
	if other, ok := m.emails[in.Email]; ok && other != id {
		return shared.ErrConflict
	}
	delete(m.emails, e.Email)
	e.FullName = in.FullName
	e.Email = in.Email
	e.Salary = in.Salary
	e.JoinedOn = in.JoinedOn
	e.DepartmentID = in.DepartmentID
	e.SkillIDs = in.SkillIDs
	e.Skills = e.Skills[:0]
	for _, sid := range in.SkillIDs {
		e.Skills = append(e.Skills, m.skills[sid])
	}
	m.employees[id] = e
	m.emails[e.Email] = id
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id int64) error {
	e, ok := m.employees[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.employees, id)
	delete(m.emails, e.Email)
	return nil
}

var _ RepositoryPort = (*mockEmployeeRepo)(nil)

func validEmployee() EmployeeInput {
	return EmployeeInput{
		FullName:     "Jordan Reyes",
		Email:        "jordan@example.com",
		Salary:       72000,
		JoinedOn:     time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC),
		DepartmentID: 1,
		SkillIDs:     []int64{1, 2},
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc := NewService(newMockEmployeeRepo())
	cases := []struct {
		name   string
		mutate func(*EmployeeInput)
	}{
		{"missing name", func(in *EmployeeInput) { in.FullName = "  " }},
		{"missing email", func(in *EmployeeInput) { in.Email = "" }},
		{"missing department", func(in *EmployeeInput) { in.DepartmentID = 0 }},
		{"negative salary", func(in *EmployeeInput) { in.Salary = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validEmployee()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in, "hr@example.com")
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestCreateEmployeeNormalizesAndResolvesSkills(t *testing.T) {
	svc := NewService(newMockEmployeeRepo())
	in := validEmployee()
	in.Email = "  Jordan@Example.COM "
	in.SkillIDs = []int64{2, 1, 2, 1}

	emp, err := svc.Create(context.Background(), in, "hr@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", emp.Email)
	assert.Equal(t, []int64{2, 1}, emp.SkillIDs)
	assert.Equal(t, []string{"SQL", "Go"}, emp.Skills)
	assert.Equal(t, "hr@example.com", emp.CreatedBy)
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	svc := NewService(newMockEmployeeRepo())
	_, err := svc.Create(context.Background(), validEmployee(), "hr@example.com")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validEmployee(), "hr@example.com")
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreateEmployeeUnknownSkill(t *testing.T) {
	svc := NewService(newMockEmployeeRepo())
	in := validEmployee()
	in.SkillIDs = []int64{99}
	_, err := svc.Create(context.Background(), in, "hr@example.com")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateEmployeeReplacesSkills(t *testing.T) {
	svc := NewService(newMockEmployeeRepo())
	emp, err := svc.Create(context.Background(), validEmployee(), "hr@example.com")
	require.NoError(t, err)

	in := validEmployee()
	in.SkillIDs = []int64{3}
	updated, err := svc.Update(context.Background(), emp.ID, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, updated.SkillIDs)
	assert.Equal(t, []string{"React"}, updated.Skills)
}

func TestDeleteEmployee(t *testing.T) {
	svc := NewService(newMockEmployeeRepo())
	emp, err := svc.Create(context.Background(), validEmployee(), "hr@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), emp.ID))
	_, err = svc.Get(context.Background(), emp.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), emp.ID), shared.ErrNotFound)
}
