package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// TaskFilters extends the standard list filters with task specific ones.
type TaskFilters struct {
	shared.ListFilters
	ProjectID  int64
	AssignedTo int64
	Status     string
}

// RepositoryPort defines data access methods for tasks.
type RepositoryPort interface {
	List(ctx context.Context, filters TaskFilters) ([]Task, int, error)
	Get(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, in TaskInput, createdBy string) (int64, error)
	Update(ctx context.Context, id int64, in TaskInput) error
	UpdateStatus(ctx context.Context, id int64, status string) error
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

const taskColumns = `
	t.id, t.project_id, p.name, t.assigned_to, e.full_name, e.email,
	t.title, COALESCE(t.description, ''), t.status, t.priority, t.due_date,
	COALESCE(t.created_by, ''), t.created_at, t.updated_at`

const taskFilterClause = `
	($1 = '' OR t.title ILIKE '%' || $1 || '%')
	AND ($2 = 0 OR t.project_id = $2)
	AND ($3 = 0 OR t.assigned_to = $3)
	AND ($4 = '' OR t.status = $4)`

func (r *Repository) List(ctx context.Context, filters TaskFilters) ([]Task, int, error) {
	args := []any{filters.Search, filters.ProjectID, filters.AssignedTo, filters.Status}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks t WHERE`+taskFilterClause, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 JOIN employees e ON e.id = t.assigned_to
		 WHERE`+taskFilterClause+`
		 ORDER BY t.id
		 LIMIT $5 OFFSET $6`,
		append(args, filters.Limit, filters.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 JOIN employees e ON e.id = t.assigned_to
		 WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, shared.ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

func (r *Repository) Create(ctx context.Context, in TaskInput, createdBy string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (project_id, assigned_to, title, description, status, priority, due_date, created_by)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		 RETURNING id`,
		in.ProjectID, in.AssignedTo, in.Title, in.Description,
		in.Status, in.Priority, in.DueDate, createdBy).Scan(&id)
	if err != nil {
		return 0, translateTaskError(err)
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, id int64, in TaskInput) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks
		 SET project_id = $2, assigned_to = $3, title = $4, description = NULLIF($5, ''),
		     status = $6, priority = $7, due_date = $8, updated_at = NOW()
		 WHERE id = $1`,
		id, in.ProjectID, in.AssignedTo, in.Title, in.Description,
		in.Status, in.Priority, in.DueDate)
	if err != nil {
		return translateTaskError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.ProjectName, &t.AssignedTo, &t.AssigneeName,
		&t.AssigneeEmail, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func translateTaskError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return shared.ErrValidation
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
