package db

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/producthub/internal/config"
	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/geocoder89/producthub/internal/security"
)

type AdminStore interface {
	Create(ctx context.Context, username, passwordHash string, roles []string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type CategorySeeder interface {
	Create(ctx context.Context, name string) (product.Category, error)
}

// EnsureAdminUser creates the configured administrator once. It does nothing
// when no admin credentials are configured or the username already exists.
func EnsureAdminUser(ctx context.Context, users AdminStore, cfg config.Config) error {
	username := strings.TrimSpace(cfg.AdminUsername)

	if username == "" || cfg.AdminPassword == "" {
		return nil
	}

	_, err := users.GetByUsername(ctx, username)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = users.Create(ctx, username, hash, []string{user.RoleUser, user.RoleAdmin})

	// lost a race with another instance
	if errors.Is(err, user.ErrUsernameTaken) {
		return nil
	}

	return err
}

// EnsureCategories creates every configured category that is missing.
func EnsureCategories(ctx context.Context, categories CategorySeeder, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		_, err := categories.Create(ctx, name)
		if err != nil && !errors.Is(err, product.ErrCategoryExists) {
			return err
		}
	}

	return nil
}
