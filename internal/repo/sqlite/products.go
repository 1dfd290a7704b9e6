package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/observability"
	"github.com/geocoder89/producthub/internal/utils"
)

type ProductsRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

func NewProductsRepo(db *sql.DB, prom *observability.Prom) *ProductsRepo {
	return &ProductsRepo{db: db, prom: prom}
}

const selectProduct = `SELECT p.id, COALESCE(p.sku, ''), p.barcode, p.name, COALESCE(p.description, ''), p.price,
		c.id, c.name, c.created_at, c.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *product.Product) error {
	var created, updated int64

	err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Barcode,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category.ID,
		&p.Category.Name,
		&created,
		&updated,
	)
	if err != nil {
		return err
	}

	p.Category.CreatedAt = fromMillis(created)
	p.Category.UpdatedAt = fromMillis(updated)
	return nil
}

func mapWriteErr(err error) error {
	switch {
	case isUniqueViolation(err):
		return product.ErrBarcodeTaken
	case isForeignKeyViolation(err):
		return product.ErrCategoryNotFound
	default:
		return nil
	}
}

func (r *ProductsRepo) Create(ctx context.Context, p product.Product) (product.Product, error) {
	err := observe(r.prom, "products.create", func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO products (sku, barcode, name, description, price, category_id)
			VALUES (NULLIF(?, ''), ?, ?, NULLIF(?, ''), ?, ?)`,
			p.SKU, p.Barcode, p.Name, p.Description, p.Price, p.Category.ID,
		)
		if err != nil {
			return err
		}
		p.ID, err = res.LastInsertId()
		return err
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
		return scanProduct(r.db.QueryRowContext(ctx, selectProduct+` WHERE p.id = ?`, id), &p)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, fmt.Errorf("select product: %w", err)
	}

	return p, nil
}

func (r *ProductsRepo) List(ctx context.Context, req product.PageRequest) ([]product.Product, int, error) {
	var total int

	err := observe(r.prom, "products.count", func() error {
		return r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	output := make([]product.Product, 0, req.Size)

	offset, ok := req.Offset(total)
	if !ok {
		return output, total, nil
	}

	query := selectProduct + ` ORDER BY ` + utils.OrderByClause(req.Sort, "p.") + ` LIMIT ? OFFSET ?`

	err = observe(r.prom, "products.list", func() error {
		rows, err := r.db.QueryContext(ctx, query, req.Size, offset)
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

func (r *ProductsRepo) Update(ctx context.Context, p product.Product) (product.Product, error) {
	var affected int64

	err := observe(r.prom, "products.update", func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE products
			SET sku = NULLIF(?, ''),
				barcode = ?,
				name = ?,
				description = NULLIF(?, ''),
				price = ?,
				category_id = ?
			WHERE id = ?`,
			p.SKU, p.Barcode, p.Name, p.Description, p.Price, p.Category.ID, p.ID,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})

	if err != nil {
		if mapped := mapWriteErr(err); mapped != nil {
			return product.Product{}, mapped
		}
		return product.Product{}, fmt.Errorf("update product: %w", err)
	}

	if affected == 0 {
		return product.Product{}, product.ErrNotFound
	}

	return p, nil
}

// Delete is a no-op for ids that do not exist.
func (r *ProductsRepo) Delete(ctx context.Context, id int64) error {
	err := observe(r.prom, "products.delete", func() error {
		_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
		return err
	})

	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	return nil
}
