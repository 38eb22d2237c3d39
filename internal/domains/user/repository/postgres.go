package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/pagination"
	"library-backend/internal/shared/sqlbuilder"
)

const uniqueViolation = "23505"

// postgresRepository implements user.Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
        INSERT INTO users (email, password, name)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, u.Email, u.PasswordHash, u.Name).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresRepository) findOne(ctx context.Context, where string, arg any) (*user.User, error) {
	query := `
        SELECT id, email, password, name, created_at, updated_at
        FROM users
        WHERE ` + where

	var u user.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func filterExpressions(f user.ListFilter) []exp.Expression {
	t := goqu.T("users")
	return []exp.Expression{
		sqlbuilder.ContainsFold(t.Col("email"), f.Email),
		sqlbuilder.ContainsFold(t.Col("name"), f.Name),
	}
}

// List never selects the password column.
func (r *postgresRepository) List(ctx context.Context, filter user.ListFilter, p pagination.Params) ([]user.User, error) {
	ds := sqlbuilder.Dialect.From("users").
		Select("id", "email", "name", "created_at", "updated_at")
	ds = sqlbuilder.Where(ds, filterExpressions(filter)...)
	ds = sqlbuilder.NewestFirst(ds, "users")
	ds = sqlbuilder.Page(ds, p)

	query, args, err := sqlbuilder.ToSQL(ds)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0, p.Limit)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (r *postgresRepository) Count(ctx context.Context, filter user.ListFilter) (int64, error) {
	ds := sqlbuilder.Dialect.From("users").Select(goqu.COUNT("*"))
	ds = sqlbuilder.Where(ds, filterExpressions(filter)...)

	query, args, err := sqlbuilder.ToSQL(ds)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}
