package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/producthub/internal/config"
	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/geocoder89/producthub/internal/utils"
	"github.com/gin-gonic/gin"
)

// Catalog is the part of service.Catalog the HTTP layer needs.
type Catalog interface {
	Get(ctx context.Context, id int64) (product.Product, error)
	List(ctx context.Context, req product.PageRequest) (product.Page, error)
	Create(ctx context.Context, req product.ProductRequest) (product.Product, error)
	Update(ctx context.Context, id int64, req product.ProductRequest) (product.Product, error)
	Delete(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]product.Category, error)
	CreateCategory(ctx context.Context, req product.CategoryRequest) (product.Category, error)
}

const requestTimeout = 3 * time.Second

type ProductsHandler struct {
	catalog Catalog
	log     *slog.Logger
}

func NewProductsHandler(catalog Catalog, log *slog.Logger) *ProductsHandler {
	return &ProductsHandler{catalog: catalog, log: loggerOrDefault(log)}
}

func (h *ProductsHandler) GetProduct(ctx *gin.Context) {
	if !Authorize(ctx, user.RoleUser) {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	p, err := h.catalog.Get(cctx, id)
	if err != nil {
		RespondServiceError(ctx, h.log, err, "Could not fetch product")
		return
	}

	RespondHALWithETag(ctx, http.StatusOK, toProductModel(baseURL(ctx), p))
}

func (h *ProductsHandler) ListProducts(ctx *gin.Context) {
	if !Authorize(ctx, user.RoleUser) {
		return
	}

	req, ok := parsePageRequest(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	page, err := h.catalog.List(cctx, req)
	if err != nil {
		RespondServiceError(ctx, h.log, err, "Could not list products")
		return
	}

	RespondHALWithETag(ctx, http.StatusOK, toPageModel(baseURL(ctx), page, req.Sort))
}

func (h *ProductsHandler) CreateProduct(ctx *gin.Context) {
	if !Authorize(ctx, user.RoleAdmin) {
		return
	}

	var req product.ProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	p, err := h.catalog.Create(cctx, req)
	if err != nil {
		RespondServiceError(ctx, h.log, err, "Could not create product")
		return
	}

	model := toProductModel(baseURL(ctx), p)
	ctx.Header("Location", model.Links["self"].Href)
	RespondHAL(ctx, http.StatusCreated, model)
}

func (h *ProductsHandler) UpdateProduct(ctx *gin.Context) {
	if !Authorize(ctx, user.RoleAdmin) {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req product.ProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	p, err := h.catalog.Update(cctx, id, req)
	if err != nil {
		RespondServiceError(ctx, h.log, err, "Could not update product")
		return
	}

	RespondHAL(ctx, http.StatusOK, toProductModel(baseURL(ctx), p))
}

func (h *ProductsHandler) DeleteProduct(ctx *gin.Context) {
	if !Authorize(ctx, user.RoleAdmin) {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.catalog.Delete(cctx, id); err != nil {
		RespondServiceError(ctx, h.log, err, "Could not delete product")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid product id", gin.H{"id": ctx.Param("id")})
		return 0, false
	}
	return id, true
}

// parsePageRequest reads page, size and sort. Missing values are left at their
// zero value for the service to default.
func parsePageRequest(ctx *gin.Context) (product.PageRequest, bool) {
	var req product.PageRequest

	for name, dst := range map[string]*int{"page": &req.Page, "size": &req.Size} {
		raw := ctx.Query(name)
		if raw == "" {
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondBadRequest(ctx, "Invalid "+name+" parameter", gin.H{name: raw})
			return product.PageRequest{}, false
		}
		*dst = n
	}

	sort, err := utils.ParseSort(ctx.QueryArray("sort"))
	if err != nil {
		RespondBadRequest(ctx, err.Error(), gin.H{"sort": ctx.QueryArray("sort")})
		return product.PageRequest{}, false
	}
	req.Sort = sort

	return req, true
}
