package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/producthub/internal/actorctx"
	"github.com/geocoder89/producthub/internal/auth"
	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/geocoder89/producthub/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, username, passwordHash string, roles []string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

// TokenCodec is satisfied by *auth.Manager.
type TokenCodec interface {
	Issue(username string, roles []string) (string, error)
	SubjectOf(token string) (string, error)
	IsValid(token, expectedUsername string) bool
}

type Auth struct {
	users  UserStore
	tokens TokenCodec
}

func NewAuth(users UserStore, tokens TokenCodec) *Auth {
	return &Auth{users: users, tokens: tokens}
}

// Register creates an account holding the default roles. A taken username
// yields user.ErrUsernameTaken.
func (a *Auth) Register(ctx context.Context, req user.CredentialsRequest) (user.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return user.User{}, invalid("username", "must not be blank")
	}
	if req.Password == "" {
		return user.User{}, invalid("password", "is required")
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return user.User{}, invalid("password", "must be at most 72 bytes")
		}
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	return a.users.Create(ctx, username, hash, user.DefaultRoles())
}

// Login returns a signed token for valid credentials. Unknown usernames and
// wrong passwords both yield ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, req user.LoginRequest) (string, error) {
	username := strings.TrimSpace(req.Username)

	u, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			security.BurnCompare(req.Password)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(u.Username, u.Roles)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to the principal it was issued for.
// Roles come from the credential store, not from the token.
func (a *Auth) Authenticate(ctx context.Context, token string) (actorctx.Principal, error) {
	subject, err := a.tokens.SubjectOf(token)
	if err != nil {
		return actorctx.Principal{}, err
	}

	u, err := a.users.GetByUsername(ctx, subject)
	if err != nil {
		return actorctx.Principal{}, err
	}

	if !a.tokens.IsValid(token, u.Username) {
		return actorctx.Principal{}, auth.ErrInvalidToken
	}

	return actorctx.Principal{Username: u.Username, Roles: u.Roles}, nil
}
