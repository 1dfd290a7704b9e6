package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/geocoder89/producthub/internal/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `TRUNCATE products, categories, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func TestUsersRepo(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	repo := NewUsersRepo(pool, nil)

	created, err := repo.Create(ctx, "alice", "hash", []string{user.RoleUser})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{user.RoleUser}, got.Roles)

	_, err = repo.Create(ctx, "alice", "hash", nil)
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestProductsRepo(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	cat, err := NewCategoriesRepo(pool, nil).Create(ctx, "Electronics")
	require.NoError(t, err)

	repo := NewProductsRepo(pool, nil)
	for i := 1; i <= 5; i++ {
		_, err := repo.Create(ctx, product.Product{
			SKU:      fmt.Sprintf("SKU00%d", i),
			Barcode:  fmt.Sprintf("12345678%d", i),
			Name:     fmt.Sprintf("Product %d", i),
			Price:    99.99,
			Category: cat,
		})
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, product.PageRequest{Page: 0, Size: 3, Sort: utils.DefaultSort()})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 5, total)
	assert.Equal(t, 99.99, items[0].Price)

	_, err = repo.Create(ctx, product.Product{Barcode: "123456781", Name: "Dup", Category: cat})
	assert.ErrorIs(t, err, product.ErrBarcodeTaken)

	_, err = repo.Create(ctx, product.Product{Barcode: "new", Name: "Orphan", Category: product.Category{ID: 999}})
	assert.ErrorIs(t, err, product.ErrCategoryNotFound)

	_, err = repo.Update(ctx, product.Product{ID: 999, Barcode: "x", Name: "ghost", Category: cat})
	assert.ErrorIs(t, err, product.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, items[0].ID))
	require.NoError(t, repo.Delete(ctx, items[0].ID))

	_, err = repo.GetByID(ctx, items[0].ID)
	assert.ErrorIs(t, err, product.ErrNotFound)
}
