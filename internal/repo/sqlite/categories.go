package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/observability"
)

type CategoriesRepo struct {
	db   *sql.DB
	prom *observability.Prom
	now  func() time.Time
}

func NewCategoriesRepo(db *sql.DB, prom *observability.Prom) *CategoriesRepo {
	return &CategoriesRepo{db: db, prom: prom, now: time.Now}
}

func (r *CategoriesRepo) Create(ctx context.Context, name string) (product.Category, error) {
	now := fromMillis(toMillis(r.now()))
	c := product.Category{Name: name, CreatedAt: now, UpdatedAt: now}

	err := observe(r.prom, "categories.create", func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (name, created_at, updated_at) VALUES (?, ?, ?)`,
			name, toMillis(now), toMillis(now),
		)
		if err != nil {
			return err
		}
		c.ID, err = res.LastInsertId()
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return product.Category{}, product.ErrCategoryExists
		}
		return product.Category{}, fmt.Errorf("insert category: %w", err)
	}

	return c, nil
}

func (r *CategoriesRepo) GetByName(ctx context.Context, name string) (product.Category, error) {
	var (
		c                product.Category
		created, updated int64
	)

	err := observe(r.prom, "categories.get_by_name", func() error {
		return r.db.QueryRowContext(ctx,
			`SELECT id, name, created_at, updated_at FROM categories WHERE name = ?`,
			name,
		).Scan(&c.ID, &c.Name, &created, &updated)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.Category{}, product.ErrCategoryNotFound
		}
		return product.Category{}, fmt.Errorf("select category: %w", err)
	}

	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updated)

	return c, nil
}

func (r *CategoriesRepo) List(ctx context.Context) ([]product.Category, error) {
	out := make([]product.Category, 0)

	err := observe(r.prom, "categories.list", func() error {
		rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM categories ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				c                product.Category
				created, updated int64
			)
			if err := rows.Scan(&c.ID, &c.Name, &created, &updated); err != nil {
				return err
			}
			c.CreatedAt = fromMillis(created)
			c.UpdatedAt = fromMillis(updated)
			out = append(out, c)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return out, nil
}
