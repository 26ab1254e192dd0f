package skills

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for skills.
type RepositoryPort interface {
	List(ctx context.Context) ([]Skill, error)
	Get(ctx context.Context, id int64) (Skill, error)
	Create(ctx context.Context, name string) (Skill, error)
	Update(ctx context.Context, id int64, name string) (Skill, error)
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

func (r *Repository) List(ctx context.Context) ([]Skill, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM skills ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var skills []Skill
	for rows.Next() {
		var sk Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.CreatedAt, &sk.UpdatedAt); err != nil {
			return nil, err
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Skill, error) {
	var sk Skill
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM skills WHERE id = $1`, id).
		Scan(&sk.ID, &sk.Name, &sk.CreatedAt, &sk.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, shared.ErrNotFound
		}
		return Skill{}, err
	}
	return sk, nil
}

func (r *Repository) Create(ctx context.Context, name string) (Skill, error) {
	var sk Skill
	err := r.pool.QueryRow(ctx,
		`INSERT INTO skills (name) VALUES ($1)
		 RETURNING id, name, created_at, updated_at`, name).
		Scan(&sk.ID, &sk.Name, &sk.CreatedAt, &sk.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Skill{}, shared.ErrConflict
		}
		return Skill{}, err
	}
	return sk, nil
}

func (r *Repository) Update(ctx context.Context, id int64, name string) (Skill, error) {
	var sk Skill
	err := r.pool.QueryRow(ctx,
		`UPDATE skills SET name = $2, updated_at = NOW() WHERE id = $1
		 RETURNING id, name, created_at, updated_at`, id, name).
		Scan(&sk.ID, &sk.Name, &sk.CreatedAt, &sk.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, shared.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Skill{}, shared.ErrConflict
		}
		return Skill{}, err
	}
	return sk, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
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

func (r *Repository) Ensure(ctx context.Context, name string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO skills (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

var _ RepositoryPort = (*Repository)(nil)
