package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is fixed; tokens are not refreshed.
const TokenTTL = 10 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens with a key that only lives as long
// as the process. Restarting the service invalidates every outstanding token.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager() (*Manager, error) {
	secret := make([]byte, 32)

	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}

	return &Manager{
		secret: secret,
		ttl:    TokenTTL,
		now:    time.Now,
	}, nil
}

// Issue returns a compact signed token for username carrying roles.
func (m *Manager) Issue(username string, roles []string) (string, error) {
	now := m.now().UTC()

	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature and format only. Expiry is judged by IsValid so
// an expired but authentic token still yields its subject.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) SubjectOf(tokenStr string) (string, error) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid reports whether the token is authentic, belongs to expectedUsername
// and has not expired yet.
func (m *Manager) IsValid(tokenStr, expectedUsername string) bool {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return false
	}

	if claims.Subject != expectedUsername {
		return false
	}

	if claims.ExpiresAt == nil {
		return false
	}

	return m.now().Before(claims.ExpiresAt.Time)
}
