// Package actorctx carries the authenticated principal and request id on a
// context.Context so layers below the HTTP handlers can read them.
package actorctx

import (
	"context"
	"slices"
)

type ctxKey string

const (
	keyPrincipal ctxKey = "principal"
	keyRequestID ctxKey = "request_id"
)

// Principal is the identity the authentication gate resolved for a request.
type Principal struct {
	Username string
	Roles    []string
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(keyPrincipal).(Principal)

	return p, ok && p.Username != ""
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)

	return v, ok && v != ""
}
