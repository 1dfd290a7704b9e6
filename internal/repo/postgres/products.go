package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/observability"
	"github.com/geocoder89/producthub/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProductsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProductsRepo {
	return &ProductsRepo{pool: pool, prom: prom}
}

const selectProduct = `SELECT p.id, COALESCE(p.sku, ''), p.barcode, p.name, COALESCE(p.description, ''), p.price,
		c.id, c.name, c.created_at, c.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row, p *product.Product) error {
	return row.Scan(
		&p.ID,
		&p.SKU,
		&p.Barcode,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category.ID,
		&p.Category.Name,
		&p.Category.CreatedAt,
		&p.Category.UpdatedAt,
	)
}

// mapWriteErr turns constraint failures into the catalog's sentinel errors.
func mapWriteErr(err error) error {
	switch {
	case IsUniqueViolation(err):
		return product.ErrBarcodeTaken
	case isForeignKeyViolation(err):
		return product.ErrCategoryNotFound
	default:
		return nil
	}
}

func (r *ProductsRepo) Create(ctx context.Context, p product.Product) (product.Product, error) {
	err := observe(r.prom, "products.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO products (sku, barcode, name, description, price, category_id)
			VALUES (NULLIF($1, ''), $2, $3, NULLIF($4, ''), $5, $6)
			RETURNING id`,
			p.SKU, p.Barcode, p.Name, p.Description, p.Price, p.Category.ID,
		).Scan(&p.ID)
	})

	if err != nil {
		if mapped := mapWriteErr(err); mapped != nil {
			return product.Product{}, mapped
		}
		return product.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return p, nil
}

func (r *ProductsRepo) GetByID(ctx context.Context, id int64) (product.Product, error) {
	var p product.Product

	err := observe(r.prom, "products.get_by_id", func() error {
		return scanProduct(r.pool.QueryRow(ctx, selectProduct+` WHERE p.id = $1`, id), &p)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, fmt.Errorf("select product: %w", err)
	}

	return p, nil
}

func (r *ProductsRepo) List(ctx context.Context, req product.PageRequest) ([]product.Product, int, error) {
	var total int

	err := observe(r.prom, "products.count", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	output := make([]product.Product, 0, req.Size)

	// an out of range page still reports the real total
	offset, ok := req.Offset(total)
	if !ok {
		return output, total, nil
	}

	// stable ordering for pagination
	query := selectProduct + ` ORDER BY ` + utils.OrderByClause(req.Sort, "p.") + ` LIMIT $1 OFFSET $2`

	err = observe(r.prom, "products.list", func() error {
		rows, err := r.pool.Query(ctx, query, req.Size, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p product.Product
			if err := scanProduct(rows, &p); err != nil {
				return err
			}
			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return output, total, nil
}

// Update replaces every mutable column of an existing row.
func (r *ProductsRepo) Update(ctx context.Context, p product.Product) (product.Product, error) {
	var tag pgconn.CommandTag

	err := observe(r.prom, "products.update", func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`UPDATE products
			SET sku = NULLIF($2, ''),
				barcode = $3,
				name = $4,
				description = NULLIF($5, ''),
				price = $6,
				category_id = $7
			WHERE id = $1`,
			p.ID, p.SKU, p.Barcode, p.Name, p.Description, p.Price, p.Category.ID,
		)
		return err
	})

	if err != nil {
		if mapped := mapWriteErr(err); mapped != nil {
			return product.Product{}, mapped
		}
		return product.Product{}, fmt.Errorf("update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return product.Product{}, product.ErrNotFound
	}

	return p, nil
}

// Delete is a no-op for ids that do not exist.
func (r *ProductsRepo) Delete(ctx context.Context, id int64) error {
	err := observe(r.prom, "products.delete", func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		return err
	})

	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	return nil
}
