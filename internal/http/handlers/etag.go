package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	jsonContentType = "application/json; charset=utf-8"
	halContentType  = "application/hal+json"
)

// RespondHALWithETag writes payload as HAL and answers 304 when the client
// already holds the same representation.
func RespondHALWithETag(ctx *gin.Context, status int, payload interface{}) {
	respondWithETag(ctx, status, halContentType, payload)
}

func RespondJSONWithETag(ctx *gin.Context, status int, payload interface{}) {
	respondWithETag(ctx, status, jsonContentType, payload)
}

// RespondHAL writes payload as HAL without conditional handling.
func RespondHAL(ctx *gin.Context, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondInternal(ctx, "Could not encode response")
		return
	}

	ctx.Data(status, halContentType, body)
}

// respondWithETag hashes the exact bytes it sends, so the tag changes with any
// change to the representation.
func respondWithETag(ctx *gin.Context, status int, contentType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondInternal(ctx, "Could not encode response")
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	ctx.Header("ETag", etag)

	if ifNoneMatchMatches(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(status, contentType, body)
}

func ifNoneMatchMatches(headerValue, currentETag string) bool {
	headerValue = strings.TrimSpace(headerValue)

	if headerValue == "" || currentETag == "" {
		return false
	}

	if headerValue == "*" {
		return true
	}

	current := normalizeETag(currentETag)

	for _, part := range strings.Split(headerValue, ",") {
		if normalizeETag(part) == current {
			return true
		}
	}

	return false
}

// normalizeETag strips the weak prefix; If-None-Match uses weak comparison.
func normalizeETag(raw string) string {
	v := strings.TrimSpace(raw)
	return strings.TrimSpace(strings.TrimPrefix(v, "W/"))
}
