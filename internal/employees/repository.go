package employees

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/platform/db"
	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for employees.
type RepositoryPort interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Employee, int, error)
	Get(ctx context.Context, id int64) (Employee, error)
	Create(ctx context.Context, in EmployeeInput, createdBy string) (int64, error)
	Update(ctx context.Context, id int64, in EmployeeInput) error
	Delete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = `
	e.id, e.full_name, e.email, e.salary, e.joined_on,
	e.department_id, d.name,
	COALESCE(array_agg(es.skill_id ORDER BY es.skill_id) FILTER (WHERE es.skill_id IS NOT NULL), '{}'),
	COALESCE(array_agg(s.name ORDER BY es.skill_id) FILTER (WHERE s.name IS NOT NULL), '{}'),
	COALESCE(e.created_by, ''), e.created_at, e.updated_at`

// List returns a page of employees. Search matches name or email.
func (r *Repository) List(ctx context.Context, filters shared.ListFilters) ([]Employee, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees
		 WHERE $1 = '' OR full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'`,
		filters.Search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+`
		 FROM employees e
		 JOIN departments d ON d.id = e.department_id
		 LEFT JOIN employee_skills es ON es.employee_id = e.id
		 LEFT JOIN skills s ON s.id = es.skill_id
		 WHERE $1 = '' OR e.full_name ILIKE '%' || $1 || '%' OR e.email ILIKE '%' || $1 || '%'
		 GROUP BY e.id, d.name
		 ORDER BY e.id
		 LIMIT $2 OFFSET $3`,
		filters.Search, filters.Limit, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var emps []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		emps = append(emps, emp)
	}
	return emps, total, rows.Err()
}

// Get fetches an employee with its department and skills.
func (r *Repository) Get(ctx context.Context, id int64) (Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+`
		 FROM employees e
		 JOIN departments d ON d.id = e.department_id
		 LEFT JOIN employee_skills es ON es.employee_id = e.id
		 LEFT JOIN skills s ON s.id = es.skill_id
		 WHERE e.id = $1
		 GROUP BY e.id, d.name`, id)
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, shared.ErrNotFound
		}
		return Employee{}, err
	}
	return emp, nil
}

// Create inserts an employee and its skill links in one transaction.
func (r *Repository) Create(ctx context.Context, in EmployeeInput, createdBy string) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO employees (full_name, email, salary, joined_on, department_id, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			in.FullName, in.Email, in.Salary, in.JoinedOn, in.DepartmentID, createdBy).Scan(&id)
		if err != nil {
			return translateEmployeeError(err)
		}
		return insertSkills(ctx, tx, id, in.SkillIDs)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites the employee row and replaces its skill links wholesale.
func (r *Repository) Update(ctx context.Context, id int64, in EmployeeInput) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE employees
			 SET full_name = $2, email = $3, salary = $4, joined_on = $5,
			     department_id = $6, updated_at = NOW()
			 WHERE id = $1`,
			id, in.FullName, in.Email, in.Salary, in.JoinedOn, in.DepartmentID)
		if err != nil {
			return translateEmployeeError(err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM employee_skills WHERE employee_id = $1`, id); err != nil {
			return err
		}
		return insertSkills(ctx, tx, id, in.SkillIDs)
	})
}

// Delete removes the employee and its skill links.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM employee_skills WHERE employee_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func insertSkills(ctx context.Context, tx pgx.Tx, employeeID int64, skillIDs []int64) error {
	for _, skillID := range skillIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO employee_skills (employee_id, skill_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			employeeID, skillID)
		if err != nil {
			return translateEmployeeError(err)
		}
	}
	return nil
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.FullName, &emp.Email, &emp.Salary, &emp.JoinedOn,
		&emp.DepartmentID, &emp.DepartmentName,
		&emp.SkillIDs, &emp.Skills,
		&emp.CreatedBy, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, err
	}
	if emp.SkillIDs == nil {
		emp.SkillIDs = []int64{}
	}
	if emp.Skills == nil {
		emp.Skills = []string{}
	}
	return emp, nil
}

func translateEmployeeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return shared.ErrConflict
		case "23503":
			return shared.ErrValidation
		}
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
