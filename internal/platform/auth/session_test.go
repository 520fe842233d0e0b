package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestSessionManager_IssueVerify(t *testing.T) {
	m := NewSessionManager(testKey, "careadmin", time.Hour)

	token, s, err := m.Issue("admin", RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, time.Hour, s.ExpiresAt.Sub(s.IssuedAt))

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "admin", got.Username)
	assert.Equal(t, []string{RoleAdmin}, got.Roles)
	assert.True(t, got.ExpiresAt.Equal(s.ExpiresAt))
}

func TestSessionManager_UniqueIDs(t *testing.T) {
	m := NewSessionManager(testKey, "careadmin", time.Hour)
	_, a, err := m.Issue("admin")
	require.NoError(t, err)
	_, b, err := m.Issue("admin")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSessionManager_Expired(t *testing.T) {
	m := NewSessionManager(testKey, "careadmin", time.Minute)
	start := time.Now()
	m.now = func() time.Time { return start }
	token, _, err := m.Issue("admin", RoleAdmin)
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestSessionManager_WrongKey(t *testing.T) {
	token, _, err := NewSessionManager(testKey, "careadmin", time.Hour).Issue("admin")
	require.NoError(t, err)

	_, err = NewSessionManager([]byte("another-key-another-key-another!!"), "careadmin", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_WrongIssuer(t *testing.T) {
	token, _, err := NewSessionManager(testKey, "someone-else", time.Hour).Issue("admin")
	require.NoError(t, err)

	_, err = NewSessionManager(testKey, "careadmin", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_RejectsNoneAlg(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "x",
		Subject:   "admin",
		Issuer:    "careadmin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionManager(testKey, "careadmin", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_Garbage(t *testing.T) {
	_, err := NewSessionManager(testKey, "careadmin", time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
