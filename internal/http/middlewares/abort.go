package middlewares

import (
	"github.com/geocoder89/producthub/internal/actorctx"
	"github.com/gin-gonic/gin"
)

// abortJSON writes the same error body the handlers use.
func abortJSON(c *gin.Context, status int, code, message string) {
	body := gin.H{
		"error": message,
		"code":  code,
	}

	if id, ok := actorctx.RequestIDFrom(c.Request.Context()); ok {
		body["requestId"] = id
	}

	c.AbortWithStatusJSON(status, body)
}
