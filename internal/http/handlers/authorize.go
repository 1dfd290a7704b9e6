package handlers

import (
	"errors"

	"github.com/geocoder89/producthub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Authorize writes 401 or 403 and returns false unless the principal holds role.
func Authorize(ctx *gin.Context, role string) bool {
	err := middlewares.CheckRole(ctx, role)

	switch {
	case err == nil:
		return true
	case errors.Is(err, middlewares.ErrUnauthenticated):
		ctx.Header("WWW-Authenticate", `Bearer realm="producthub"`)
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
	default:
		RespondForbidden(ctx, "Role "+role+" required")
	}

	return false
}
