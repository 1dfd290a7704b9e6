package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoriesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCategoriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CategoriesRepo {
	return &CategoriesRepo{pool: pool, prom: prom}
}

func (r *CategoriesRepo) Create(ctx context.Context, name string) (product.Category, error) {
	var c product.Category

	err := observe(r.prom, "categories.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO categories (name) VALUES ($1)
			RETURNING id, name, created_at, updated_at`,
			name,
		).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return product.Category{}, product.ErrCategoryExists
		}
		return product.Category{}, fmt.Errorf("insert category: %w", err)
	}

	return c, nil
}

func (r *CategoriesRepo) GetByName(ctx context.Context, name string) (product.Category, error) {
	var c product.Category

	err := observe(r.prom, "categories.get_by_name", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, created_at, updated_at FROM categories WHERE name = $1`,
			name,
		).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Category{}, product.ErrCategoryNotFound
		}
		return product.Category{}, fmt.Errorf("select category: %w", err)
	}

	return c, nil
}

func (r *CategoriesRepo) List(ctx context.Context) ([]product.Category, error) {
	out := make([]product.Category, 0)

	err := observe(r.prom, "categories.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM categories ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c product.Category
			if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return out, nil
}
