package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/platform/db"
	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for user management.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, email, name, passwordHash string) (User, error)
	DeleteByEmail(ctx context.Context, email string) error
	RoleIDByName(ctx context.Context, name string) (int64, error)
	EnsureRole(ctx context.Context, name string) (int64, error)
	ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error
	AssignRole(ctx context.Context, userID, roleID int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all users with their role names.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.email, u.name, u.is_active, u.created_at, u.updated_at,
		        COALESCE(array_agg(ro.name) FILTER (WHERE ro.name IS NOT NULL), '{}')
		 FROM users u
		 LEFT JOIN user_roles ur ON ur.user_id = u.id
		 LEFT JOIN roles ro ON ro.id = ur.role_id
		 GROUP BY u.id
		 ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.IsActive,
			&user.CreatedAt, &user.UpdatedAt, &user.Roles); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetByEmail fetches a single user with role names.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx,
		`SELECT u.id, u.email, u.name, u.is_active, u.created_at, u.updated_at,
		        COALESCE(array_agg(ro.name) FILTER (WHERE ro.name IS NOT NULL), '{}')
		 FROM users u
		 LEFT JOIN user_roles ur ON ur.user_id = u.id
		 LEFT JOIN roles ro ON ro.id = ur.role_id
		 WHERE u.email = $1
		 GROUP BY u.id`, email).
		Scan(&user.ID, &user.Email, &user.Name, &user.IsActive,
			&user.CreatedAt, &user.UpdatedAt, &user.Roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// CreateUser inserts a new active user.
func (r *Repository) CreateUser(ctx context.Context, email, name, passwordHash string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, email, name, is_active, created_at, updated_at`,
		email, name, passwordHash).
		Scan(&user.ID, &user.Email, &user.Name, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, shared.ErrConflict
		}
		return User{}, err
	}
	return user, nil
}

// DeleteByEmail removes the user and their role links.
func (r *Repository) DeleteByEmail(ctx context.Context, email string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM user_roles WHERE user_id IN (SELECT id FROM users WHERE email = $1)`,
			email); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// RoleIDByName looks up a role id.
func (r *Repository) RoleIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// EnsureRole creates the role if missing and returns its id.
func (r *Repository) EnsureRole(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, description) VALUES ($1, '')
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ReplaceUserRoles swaps the user's role assignments transactionally.
func (r *Repository) ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
				userID, roleID); err != nil {
				return err
			}
		}
		return nil
	})
}

// AssignRole links a user to a role, tolerating repeats.
func (r *Repository) AssignRole(ctx context.Context, userID, roleID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userID, roleID)
	return err
}

var _ RepositoryPort = (*Repository)(nil)
