package departments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for departments.
type RepositoryPort interface {
	List(ctx context.Context) ([]Department, error)
	Get(ctx context.Context, id int64) (Department, error)
	Create(ctx context.Context, name string) (Department, error)
	Update(ctx context.Context, id int64, name string) (Department, error)
	Delete(ctx context.Context, id int64) error
	Ensure(ctx context.Context, name string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all departments.
func (r *Repository) List(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var deps []Department
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.CreatedAt, &dep.UpdatedAt); err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}

// Get fetches a department by id.
func (r *Repository) Get(ctx context.Context, id int64) (Department, error) {
	var dep Department
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM departments WHERE id = $1`, id).
		Scan(&dep.ID, &dep.Name, &dep.CreatedAt, &dep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Department{}, shared.ErrNotFound
		}
		return Department{}, err
	}
	return dep, nil
}

// Create inserts a new department.
func (r *Repository) Create(ctx context.Context, name string) (Department, error) {
	var dep Department
	err := r.pool.QueryRow(ctx,
		`INSERT INTO departments (name) VALUES ($1)
		 RETURNING id, name, created_at, updated_at`, name).
		Scan(&dep.ID, &dep.Name, &dep.CreatedAt, &dep.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Department{}, shared.ErrConflict
		}
		return Department{}, err
	}
	return dep, nil
}

// Update renames a department.
func (r *Repository) Update(ctx context.Context, id int64, name string) (Department, error) {
	var dep Department
	err := r.pool.QueryRow(ctx,
		`UPDATE departments SET name = $2, updated_at = NOW() WHERE id = $1
		 RETURNING id, name, created_at, updated_at`, id, name).
		Scan(&dep.ID, &dep.Name, &dep.CreatedAt, &dep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Department{}, shared.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Department{}, shared.ErrConflict
		}
		return Department{}, err
	}
	return dep, nil
}

// Delete removes a department.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return shared.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure creates the department when missing.
func (r *Repository) Ensure(ctx context.Context, name string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

var _ RepositoryPort = (*Repository)(nil)
