package user

import (
	"errors"
	"slices"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// DefaultRoles is what a self-registered account receives.
func DefaultRoles() []string {
	return []string{RoleUser}
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

type CredentialsRequest struct {
	Username string `json:"username" binding:"required,notblank,max=64"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginRequest leaves password checks to the credential comparison, so any
// wrong password fails the same way.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}
