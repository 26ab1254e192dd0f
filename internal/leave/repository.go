package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for leave requests.
type RepositoryPort interface {
	Create(ctx context.Context, req Request) (Request, error)
	Get(ctx context.Context, id int64) (Request, error)
	ListForUser(ctx context.Context, userID int64, filters shared.ListFilters) ([]Request, int, error)
	ListAll(ctx context.Context, filters shared.ListFilters) ([]Request, int, error)
	ListPending(ctx context.Context) ([]Request, error)
	UpdateFields(ctx context.Context, id int64, in RequestInput) error
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

const leaveColumns = `id, user_id, user_name, leave_type, from_date, to_date,
	COALESCE(reason, ''), status, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, req Request) (Request, error) {
	created, err := scanRequest(r.pool.QueryRow(ctx,
		`INSERT INTO leave_requests (user_id, user_name, leave_type, from_date, to_date, reason, status)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		 RETURNING `+leaveColumns,
		req.UserID, req.UserName, req.LeaveType, req.FromDate, req.ToDate, req.Reason, req.Status))
	if err != nil {
		return Request{}, err
	}
	return created, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Request, error) {
	req, err := scanRequest(r.pool.QueryRow(ctx,
		`SELECT `+leaveColumns+` FROM leave_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, shared.ErrNotFound
		}
		return Request{}, err
	}
	return req, nil
}

// ListForUser returns a page of the user's own requests. Search matches the
// leave type or status.
func (r *Repository) ListForUser(ctx context.Context, userID int64, filters shared.ListFilters) ([]Request, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leave_requests
		 WHERE user_id = $1
		   AND ($2 = '' OR leave_type ILIKE '%' || $2 || '%' OR status ILIKE '%' || $2 || '%')`,
		userID, filters.Search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+leaveColumns+` FROM leave_requests
		 WHERE user_id = $1
		   AND ($2 = '' OR leave_type ILIKE '%' || $2 || '%' OR status ILIKE '%' || $2 || '%')
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		userID, filters.Search, filters.Limit, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list, err := collectRequests(rows)
	return list, total, err
}

// ListAll returns a page over every request. Search also matches the
// requester name.
func (r *Repository) ListAll(ctx context.Context, filters shared.ListFilters) ([]Request, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leave_requests
		 WHERE $1 = '' OR leave_type ILIKE '%' || $1 || '%'
		    OR user_name ILIKE '%' || $1 || '%' OR status ILIKE '%' || $1 || '%'`,
		filters.Search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+leaveColumns+` FROM leave_requests
		 WHERE $1 = '' OR leave_type ILIKE '%' || $1 || '%'
		    OR user_name ILIKE '%' || $1 || '%' OR status ILIKE '%' || $1 || '%'
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		filters.Search, filters.Limit, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list, err := collectRequests(rows)
	return list, total, err
}

func (r *Repository) ListPending(ctx context.Context) ([]Request, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+leaveColumns+` FROM leave_requests
		 WHERE status = $1
		 ORDER BY from_date`, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *Repository) UpdateFields(ctx context.Context, id int64, in RequestInput) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leave_requests
		 SET leave_type = $2, from_date = $3, to_date = $4, reason = NULLIF($5, ''),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, in.LeaveType, in.FromDate, in.ToDate, in.Reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leave_requests SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.UserID, &req.UserName, &req.LeaveType,
		&req.FromDate, &req.ToDate, &req.Reason, &req.Status,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func collectRequests(rows pgx.Rows) ([]Request, error) {
	var list []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
