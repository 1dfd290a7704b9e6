package middlewares

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")
)

// CheckRole reports whether the request's principal holds role. Handlers call
// it first thing instead of relying on route-level guards.
func CheckRole(c *gin.Context, role string) error {
	p, ok := PrincipalFromContext(c)
	if !ok {
		return ErrUnauthenticated
	}

	if !p.HasRole(role) {
		return ErrForbidden
	}

	return nil
}
