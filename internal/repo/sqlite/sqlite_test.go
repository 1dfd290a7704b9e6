package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"testing"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/geocoder89/producthub/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))

	return db
}

func TestUsersRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo(openTestDB(t), nil)

	created, err := repo.Create(ctx, "alice", "hash", []string{user.RoleUser, user.RoleAdmin})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, []string{user.RoleUser, user.RoleAdmin}, got.Roles)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))

	_, err = repo.Create(ctx, "alice", "other", nil)
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestCategoriesRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoriesRepo(openTestDB(t), nil)

	books, err := repo.Create(ctx, "Books")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Electronics")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "Books")
	assert.ErrorIs(t, err, product.ErrCategoryExists)

	got, err := repo.GetByName(ctx, "Books")
	require.NoError(t, err)
	assert.Equal(t, books.ID, got.ID)

	_, err = repo.GetByName(ctx, "Toys")
	assert.ErrorIs(t, err, product.ErrCategoryNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Books", all[0].Name)
	assert.Equal(t, "Electronics", all[1].Name)
}

func seedCatalog(t *testing.T, db *sql.DB, n int) (*ProductsRepo, product.Category) {
	t.Helper()
	ctx := context.Background()

	cat, err := NewCategoriesRepo(db, nil).Create(ctx, "Electronics")
	require.NoError(t, err)

	repo := NewProductsRepo(db, nil)
	for i := 1; i <= n; i++ {
		_, err := repo.Create(ctx, product.Product{
			SKU:         fmt.Sprintf("SKU00%d", i),
			Barcode:     fmt.Sprintf("12345678%d", i),
			Name:        fmt.Sprintf("Product %d", i),
			Description: "Test description",
			Price:       99.99,
			Category:    cat,
		})
		require.NoError(t, err)
	}

	return repo, cat
}

func TestProductsRepo_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, cat := seedCatalog(t, openTestDB(t), 0)

	in := product.Product{Barcode: "123456789", Name: "Phone", Price: 10.5, Category: cat}
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	in.ID = created.ID
	assert.Equal(t, in, got)
}

func TestProductsRepo_List_Paging(t *testing.T) {
	ctx := context.Background()
	repo, _ := seedCatalog(t, openTestDB(t), 5)

	items, total, err := repo.List(ctx, product.PageRequest{Page: 0, Size: 3, Sort: utils.DefaultSort()})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 5, total)
	assert.Equal(t, "Product 1", items[0].Name)

	page := product.NewPage(items, product.PageRequest{Page: 0, Size: 3}, total)
	assert.Equal(t, 2, page.TotalPages)

	items, total, err = repo.List(ctx, product.PageRequest{Page: 1, Size: 3, Sort: utils.DefaultSort()})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 5, total)

	items, total, err = repo.List(ctx, product.PageRequest{Page: 0, Size: 2, Sort: []product.SortOrder{{Field: "name", Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, "Product 5", items[0].Name)
	assert.Equal(t, 5, total)

	items, total, err = repo.List(ctx, product.PageRequest{Page: 9, Size: 3, Sort: utils.DefaultSort()})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 5, total)
}

func TestProductsRepo_List_HugePageIsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, _ := seedCatalog(t, openTestDB(t), 3)

	for _, req := range []product.PageRequest{
		{Page: math.MaxInt/10 + 1, Size: 10, Sort: utils.DefaultSort()},
		{Page: math.MaxInt, Size: 100, Sort: utils.DefaultSort()},
	} {
		items, total, err := repo.List(ctx, req)
		require.NoError(t, err)
		assert.Empty(t, items, "page %d", req.Page)
		assert.Equal(t, 3, total)
	}
}

func TestProductsRepo_BarcodeUnique(t *testing.T) {
	ctx := context.Background()
	repo, cat := seedCatalog(t, openTestDB(t), 1)

	_, err := repo.Create(ctx, product.Product{Barcode: "123456781", Name: "Dup", Category: cat})
	assert.ErrorIs(t, err, product.ErrBarcodeTaken)
}

func TestProductsRepo_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	repo, _ := seedCatalog(t, openTestDB(t), 0)

	_, err := repo.Create(ctx, product.Product{Barcode: "1", Name: "Orphan", Category: product.Category{ID: 999}})
	assert.ErrorIs(t, err, product.ErrCategoryNotFound)
}

func TestProductsRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, cat := seedCatalog(t, openTestDB(t), 1)

	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)

	p.Name = "Renamed"
	p.SKU = ""
	p.Price = 1.25
	_, err = repo.Update(ctx, p)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Empty(t, got.SKU)
	assert.Equal(t, 1.25, got.Price)

	_, err = repo.Update(ctx, product.Product{ID: 42, Barcode: "x", Name: "ghost", Category: cat})
	assert.ErrorIs(t, err, product.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, product.ErrNotFound)

	// deleting a missing id is not an error
	assert.NoError(t, repo.Delete(ctx, 1))
}
