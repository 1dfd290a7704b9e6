package middlewares

import (
	"context"
	"log/slog"
	"strings"

	"github.com/geocoder89/producthub/internal/actorctx"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (actorctx.Principal, error)
}

type AuthMiddleware struct {
	auth Authenticator
	log  *slog.Logger
}

func NewAuthMiddleware(auth Authenticator, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{auth: auth, log: log}
}

// Authenticate attaches the principal named by a valid bearer token. It never
// rejects a request: a missing or bad token leaves the request anonymous and
// role checks in the handlers decide the outcome.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		// already resolved further up the chain
		if _, ok := PrincipalFromContext(c); ok {
			c.Next()
			return
		}

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		p, err := m.auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			m.log.DebugContext(c.Request.Context(), "bearer_token_rejected", "err", err)
			c.Next()
			return
		}

		c.Set(CtxPrincipal, p)
		c.Request = c.Request.WithContext(actorctx.WithPrincipal(c.Request.Context(), p))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	return raw, raw != ""
}

// PrincipalFromContext returns the identity attached by Authenticate.
func PrincipalFromContext(c *gin.Context) (actorctx.Principal, bool) {
	if v, ok := c.Get(CtxPrincipal); ok {
		if p, ok := v.(actorctx.Principal); ok && p.Username != "" {
			return p, true
		}
	}

	return actorctx.PrincipalFrom(c.Request.Context())
}
