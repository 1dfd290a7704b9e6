package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/geocoder89/producthub/internal/cache"
	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/observability"
	"github.com/geocoder89/producthub/internal/utils"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ProductStore interface {
	Create(ctx context.Context, p product.Product) (product.Product, error)
	GetByID(ctx context.Context, id int64) (product.Product, error)
	List(ctx context.Context, req product.PageRequest) ([]product.Product, int, error)
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryStore interface {
	Create(ctx context.Context, name string) (product.Category, error)
	GetByName(ctx context.Context, name string) (product.Category, error)
	List(ctx context.Context) ([]product.Category, error)
}

// Catalog serves product reads through a cache that every write clears as a
// whole. A read racing a write may repopulate an entry with the old value
// until the next write or expiry. A write whose cache clear fails leaves the
// same window open.
type Catalog struct {
	products   ProductStore
	categories CategoryStore
	cache      cache.Store
	prom       *observability.Prom
	log        *slog.Logger
}

func NewCatalog(products ProductStore, categories CategoryStore, store cache.Store, prom *observability.Prom, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}

	return &Catalog{
		products:   products,
		categories: categories,
		cache:      store,
		prom:       prom,
		log:        log,
	}
}

func (c *Catalog) Get(ctx context.Context, id int64) (product.Product, error) {
	key := utils.BuildProductCacheKey(id)

	var p product.Product
	if c.lookup(ctx, "get", key, &p) {
		return p, nil
	}

	p, err := c.products.GetByID(ctx, id)
	if err != nil {
		return product.Product{}, err
	}

	c.store(ctx, key, p)
	return p, nil
}

// List returns one page. Size falls back to DefaultPageSize and is capped at
// MaxPageSize; an empty sort means name ascending.
func (c *Catalog) List(ctx context.Context, req product.PageRequest) (product.Page, error) {
	req, err := normalizePage(req)
	if err != nil {
		return product.Page{}, err
	}

	key := utils.BuildProductsPageCacheKey(req)

	var page product.Page
	if c.lookup(ctx, "list", key, &page) {
		return page, nil
	}

	items, total, err := c.products.List(ctx, req)
	if err != nil {
		return product.Page{}, err
	}

	page = product.NewPage(items, req, total)
	c.store(ctx, key, page)

	return page, nil
}

func (c *Catalog) Create(ctx context.Context, req product.ProductRequest) (product.Product, error) {
	p, err := c.fromRequest(ctx, req)
	if err != nil {
		return product.Product{}, err
	}

	created, err := c.products.Create(ctx, p)
	if err != nil {
		return product.Product{}, err
	}

	c.invalidate(ctx)
	return created, nil
}

// Update replaces every mutable field of product id.
func (c *Catalog) Update(ctx context.Context, id int64, req product.ProductRequest) (product.Product, error) {
	p, err := c.fromRequest(ctx, req)
	if err != nil {
		return product.Product{}, err
	}
	p.ID = id

	updated, err := c.products.Update(ctx, p)
	if err != nil {
		return product.Product{}, err
	}

	c.invalidate(ctx)
	return updated, nil
}

// Delete succeeds whether or not id exists.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	if err := c.products.Delete(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx)
	return nil
}

func (c *Catalog) ListCategories(ctx context.Context) ([]product.Category, error) {
	return c.categories.List(ctx)
}

func (c *Catalog) CreateCategory(ctx context.Context, req product.CategoryRequest) (product.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return product.Category{}, invalid("name", "must not be blank")
	}

	return c.categories.Create(ctx, name)
}

func (c *Catalog) fromRequest(ctx context.Context, req product.ProductRequest) (product.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return product.Product{}, invalid("name", "must not be blank")
	}
	if strings.TrimSpace(req.Barcode) == "" {
		return product.Product{}, invalid("barcode", "must not be blank")
	}
	if req.Price < 0 {
		return product.Product{}, invalid("price", "must not be negative")
	}
	if req.Category == nil || strings.TrimSpace(req.Category.Name) == "" {
		return product.Product{}, invalid("category.name", "is required")
	}

	category, err := c.categories.GetByName(ctx, strings.TrimSpace(req.Category.Name))
	if err != nil {
		return product.Product{}, err
	}

	return product.NewFromRequest(req, category), nil
}

func normalizePage(req product.PageRequest) (product.PageRequest, error) {
	if req.Page < 0 {
		return req, invalid("page", "must not be negative")
	}

	switch {
	case req.Size <= 0:
		req.Size = DefaultPageSize
	case req.Size > MaxPageSize:
		req.Size = MaxPageSize
	}

	if len(req.Sort) == 0 {
		req.Sort = utils.DefaultSort()
	}

	return req, nil
}

// lookup decodes a cached value into out. Cache failures count as misses.
func (c *Catalog) lookup(ctx context.Context, kind, key string, out any) bool {
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.WarnContext(ctx, "cache_get_failed", "key", key, "err", err)
		ok = false
	}

	if ok {
		if err := json.Unmarshal(raw, out); err != nil {
			c.log.WarnContext(ctx, "cache_decode_failed", "key", key, "err", err)
			ok = false
		}
	}

	if c.prom != nil {
		c.prom.ObserveCacheLookup(kind, ok)
	}

	return ok
}

func (c *Catalog) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.WarnContext(ctx, "cache_encode_failed", "key", key, "err", err)
		return
	}

	if err := c.cache.Set(ctx, key, raw); err != nil {
		c.log.WarnContext(ctx, "cache_set_failed", "key", key, "err", err)
	}
}

// invalidate tries Clear twice. If both attempts fail the write still stands
// and cached reads may be stale until their TTL runs out.
func (c *Catalog) invalidate(ctx context.Context) {
	err := c.cache.Clear(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "cache_clear_retry", "err", err)
		err = c.cache.Clear(ctx)
	}
	if err != nil {
		c.log.ErrorContext(ctx, "cache_clear_failed", "err", err)
		return
	}

	if c.prom != nil {
		c.prom.ObserveCacheInvalidation()
	}
}
