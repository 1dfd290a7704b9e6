package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/geocoder89/producthub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string, roles []string) (user.User, error) {
	var u user.User

	err := observe(r.prom, "users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (username, password_hash, roles)
			VALUES ($1, $2, $3)
			RETURNING id, username, password_hash, roles, created_at, updated_at`,
			username, passwordHash, roles,
		).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrUsernameTaken
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := observe(r.prom, "users.get_by_username", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, username, password_hash, roles, created_at, updated_at
			FROM users
			WHERE username = $1`,
			username,
		).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}
