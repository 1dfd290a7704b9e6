package handlers

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/producthub/internal/config"
	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct {
	catalog Catalog
	log     *slog.Logger
}

func NewCategoriesHandler(catalog Catalog, log *slog.Logger) *CategoriesHandler {
	return &CategoriesHandler{catalog: catalog, log: loggerOrDefault(log)}
}

func (h *CategoriesHandler) ListCategories(ctx *gin.Context) {
	if !Authorize(ctx, user.RoleUser) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(cctx)
	if err != nil {
		RespondServiceError(ctx, h.log, err, "Could not list categories")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": categories,
		"count": len(categories),
	})
}

func (h *CategoriesHandler) CreateCategory(ctx *gin.Context) {
	if !Authorize(ctx, user.RoleAdmin) {
		return
	}

	var req product.CategoryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	c, err := h.catalog.CreateCategory(cctx, req)
	if err != nil {
		RespondServiceError(ctx, h.log, err, "Could not create category")
		return
	}

	ctx.JSON(http.StatusCreated, c)
}
