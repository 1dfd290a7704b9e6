package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager()
	require.NoError(t, err)

	return m
}

func TestIssue_SubjectRoundTrip(t *testing.T) {
	m := newTestManager(t)

	for _, username := range []string{"alice", "bob", "user.with.dots@example.com"} {
		token, err := m.Issue(username, []string{"ROLE_USER"})
		require.NoError(t, err)

		subject, err := m.SubjectOf(token)
		require.NoError(t, err)
		assert.Equal(t, username, subject)
		assert.True(t, m.IsValid(token, username))
	}
}

func TestIssue_CarriesRolesAndExpiry(t *testing.T) {
	m := newTestManager(t)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	token, err := m.Issue("alice", []string{"ROLE_USER", "ROLE_ADMIN"})
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, claims.Roles)
	assert.True(t, claims.IssuedAt.Time.Equal(fixed))
	assert.True(t, claims.ExpiresAt.Time.Equal(fixed.Add(10*time.Hour)))
}

func TestIsValid_FalseAfterExpiry(t *testing.T) {
	m := newTestManager(t)
	issuedAt := time.Now()
	m.now = func() time.Time { return issuedAt }

	token, err := m.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)
	require.True(t, m.IsValid(token, "alice"))

	m.now = func() time.Time { return issuedAt.Add(TokenTTL + time.Second) }
	assert.False(t, m.IsValid(token, "alice"))

	// an expired token still names its subject
	subject, err := m.SubjectOf(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestIsValid_SubjectMismatch(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Issue("alice", nil)
	require.NoError(t, err)

	assert.False(t, m.IsValid(token, "mallory"))
}

func TestSubjectOf_RejectsForeignKey(t *testing.T) {
	issuer := newTestManager(t)
	verifier := newTestManager(t)

	token, err := issuer.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	_, err = verifier.SubjectOf(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, verifier.IsValid(token, "alice"))
}

func TestSubjectOf_RejectsMalformedAndTampered(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	for _, raw := range []string{"", "not-a-token", tampered} {
		_, err := m.SubjectOf(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestSubjectOf_RejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.SubjectOf(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
