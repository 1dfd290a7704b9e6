package handlers

import (
	"errors"
	"log/slog"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/geocoder89/producthub/internal/service"
	"github.com/geocoder89/producthub/internal/utils"
	"github.com/gin-gonic/gin"
)

// RespondServiceError maps an error from the service layer onto a response.
// Anything unrecognised is logged to log and reported as a 500 with a generic
// message.
func RespondServiceError(ctx *gin.Context, log *slog.Logger, err error, fallback string) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		RespondBadRequest(ctx, verr.Error(), gin.H{"fields": []FieldError{{
			Field:   verr.Field,
			Rule:    "invalid",
			Message: verr.Message,
		}}})
	case errors.Is(err, utils.ErrInvalidSort):
		RespondBadRequest(ctx, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
	case errors.Is(err, product.ErrNotFound):
		RespondNotFound(ctx, "Product not found")
	case errors.Is(err, product.ErrCategoryNotFound):
		RespondNotFound(ctx, "Category not found")
	case errors.Is(err, product.ErrBarcodeTaken):
		RespondConflict(ctx, "barcode_taken", "Barcode is already in use.")
	case errors.Is(err, product.ErrCategoryExists):
		RespondConflict(ctx, "category_exists", "Category already exists.")
	case errors.Is(err, user.ErrUsernameTaken):
		RespondConflict(ctx, "username_taken", "Username is already in use.")
	default:
		log.ErrorContext(ctx.Request.Context(), "request_failed",
			"err", err,
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
		)
		RespondInternal(ctx, fallback)
	}
}

func loggerOrDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
