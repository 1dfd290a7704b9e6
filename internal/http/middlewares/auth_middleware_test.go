package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/producthub/internal/actorctx"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	calls int
	fn    func(ctx context.Context, token string) (actorctx.Principal, error)
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (actorctx.Principal, error) {
	f.calls++
	return f.fn(ctx, token)
}

func okAuthenticator() *fakeAuthenticator {
	return &fakeAuthenticator{
		fn: func(ctx context.Context, token string) (actorctx.Principal, error) {
			if token != "good" {
				return actorctx.Principal{}, errors.New("invalid token")
			}
			return actorctx.Principal{Username: "alice", Roles: []string{"ROLE_USER"}}, nil
		},
	}
}

func runGate(t *testing.T, authn Authenticator, header string, extra ...gin.HandlerFunc) (*httptest.ResponseRecorder, *actorctx.Principal) {
	t.Helper()

	var seen *actorctx.Principal

	m := NewAuthMiddleware(authn, nil)
	r := gin.New()
	chain := append([]gin.HandlerFunc{m.Authenticate()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		if p, ok := actorctx.PrincipalFrom(c.Request.Context()); ok {
			seen = &p
		}
		c.Status(http.StatusOK)
	})
	r.GET("/x", chain...)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w, seen
}

func TestAuthenticate_AttachesPrincipal(t *testing.T) {
	w, p := runGate(t, okAuthenticator(), "Bearer good")

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if p == nil || p.Username != "alice" {
		t.Fatalf("principal not attached to request context: %+v", p)
	}
}

func TestAuthenticate_NeverRejects(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer bad"} {
		w, p := runGate(t, okAuthenticator(), header)

		if w.Code != http.StatusOK {
			t.Errorf("header %q: got %d, want 200", header, w.Code)
		}
		if p != nil {
			t.Errorf("header %q: expected anonymous request, got %+v", header, p)
		}
	}
}

func TestAuthenticate_RunsOncePerRequest(t *testing.T) {
	authn := okAuthenticator()
	m := NewAuthMiddleware(authn, nil)

	w, p := runGate(t, authn, "Bearer good", m.Authenticate())

	if w.Code != http.StatusOK || p == nil {
		t.Fatalf("got %d principal=%v", w.Code, p)
	}
	if authn.calls != 1 {
		t.Fatalf("token resolved %d times, want 1", authn.calls)
	}
}

func TestCheckRole(t *testing.T) {
	newCtx := func(p *actorctx.Principal) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if p != nil {
			c.Set(CtxPrincipal, *p)
		}
		return c
	}

	if err := CheckRole(newCtx(nil), "ROLE_USER"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("no principal: got %v", err)
	}

	user := &actorctx.Principal{Username: "bob", Roles: []string{"ROLE_USER"}}
	if err := CheckRole(newCtx(user), "ROLE_ADMIN"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("user as admin: got %v", err)
	}
	if err := CheckRole(newCtx(user), "ROLE_USER"); err != nil {
		t.Fatalf("user as user: got %v", err)
	}
}
