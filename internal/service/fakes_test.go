package service

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/domain/user"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]user.User{}}
}

func (f *fakeUsers) Create(_ context.Context, username, hash string, roles []string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byName[username]; ok {
		return user.User{}, user.ErrUsernameTaken
	}

	f.nextID++
	u := user.User{ID: f.nextID, Username: username, PasswordHash: hash, Roles: roles}
	f.byName[username] = u
	return u, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byName[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type fakeProducts struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]product.Product
	gets   int
	lists  int
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{rows: map[int64]product.Product{}}
}

func (f *fakeProducts) Create(_ context.Context, p product.Product) (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.rows {
		if existing.Barcode == p.Barcode {
			return product.Product{}, product.ErrBarcodeTaken
		}
	}

	f.nextID++
	p.ID = f.nextID
	f.rows[p.ID] = p
	return p, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gets++
	p, ok := f.rows[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) List(_ context.Context, req product.PageRequest) ([]product.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lists++
	all := make([]product.Product, 0, len(f.rows))
	for _, p := range f.rows {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	start, ok := req.Offset(len(all))
	if !ok {
		return []product.Product{}, len(all), nil
	}
	end := min(start+req.Size, len(all))
	return all[start:end], len(all), nil
}

func (f *fakeProducts) Update(_ context.Context, p product.Product) (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rows[p.ID]; !ok {
		return product.Product{}, product.ErrNotFound
	}
	f.rows[p.ID] = p
	return p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.rows, id)
	return nil
}

type fakeCategories struct {
	rows []product.Category
}

func (f *fakeCategories) Create(_ context.Context, name string) (product.Category, error) {
	for _, c := range f.rows {
		if c.Name == name {
			return product.Category{}, product.ErrCategoryExists
		}
	}
	c := product.Category{ID: int64(len(f.rows) + 1), Name: name}
	f.rows = append(f.rows, c)
	return c, nil
}

func (f *fakeCategories) GetByName(_ context.Context, name string) (product.Category, error) {
	for _, c := range f.rows {
		if c.Name == name {
			return c, nil
		}
	}
	return product.Category{}, product.ErrCategoryNotFound
}

func (f *fakeCategories) List(_ context.Context) ([]product.Category, error) {
	return f.rows, nil
}
