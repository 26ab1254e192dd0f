package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for projects.
type RepositoryPort interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Project, int, error)
	Get(ctx context.Context, id int64) (Project, error)
	Create(ctx context.Context, in ProjectInput, createdBy string) (Project, error)
	Update(ctx context.Context, id int64, in ProjectInput) (Project, error)
	Delete(ctx context.Context, id int64) error
	HasTasks(ctx context.Context, id int64) (bool, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projectColumns = `id, name, COALESCE(description, ''), start_date, end_date,
	COALESCE(created_by, ''), created_at, updated_at`

func (r *Repository) List(ctx context.Context, filters shared.ListFilters) ([]Project, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%'`, filters.Search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		filters.Search, filters.Limit, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, shared.ErrNotFound
		}
		return Project{}, err
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, in ProjectInput, createdBy string) (Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx,
		`INSERT INTO projects (name, description, start_date, end_date, created_by)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		 RETURNING `+projectColumns,
		in.Name, in.Description, in.StartDate, in.EndDate, createdBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Project{}, shared.ErrConflict
		}
		return Project{}, err
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id int64, in ProjectInput) (Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx,
		`UPDATE projects
		 SET name = $2, description = NULLIF($3, ''), start_date = $4, end_date = $5,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+projectColumns,
		id, in.Name, in.Description, in.StartDate, in.EndDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, shared.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Project{}, shared.ErrConflict
		}
		return Project{}, err
	}
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) HasTasks(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE project_id = $1)`, id).Scan(&exists)
	return exists, err
}

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

var _ RepositoryPort = (*Repository)(nil)
