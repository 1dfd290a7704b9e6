package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/geocoder89/producthub/internal/observability"
)

type UsersRepo struct {
	db   *sql.DB
	prom *observability.Prom
	now  func() time.Time
}

func NewUsersRepo(db *sql.DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom, now: time.Now}
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string, roles []string) (user.User, error) {
	now := fromMillis(toMillis(r.now()))

	u := user.User{
		Username:     username,
		PasswordHash: passwordHash,
		Roles:        append([]string{}, roles...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := observe(r.prom, "users.create", func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, roles, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			u.Username, u.PasswordHash, joinRoles(u.Roles), toMillis(now), toMillis(now),
		)
		if err != nil {
			return err
		}
		u.ID, err = res.LastInsertId()
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUsernameTaken
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var (
		u                user.User
		roles            string
		created, updated int64
	)

	err := observe(r.prom, "users.get_by_username", func() error {
		return r.db.QueryRowContext(ctx,
			`SELECT id, username, password_hash, roles, created_at, updated_at FROM users WHERE username = ?`,
			username,
		).Scan(&u.ID, &u.Username, &u.PasswordHash, &roles, &created, &updated)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("select user: %w", err)
	}

	u.Roles = splitRoles(roles)
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)

	return u, nil
}
