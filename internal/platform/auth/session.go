package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleAdmin is the only role the dashboard issues.
const RoleAdmin = "admin"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenRevoked = errors.New("session token revoked")
)

type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// Session is the verified identity behind a request.
type Session struct {
	ID        string    `json:"session_id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(signingKey []byte, issuer string, ttl time.Duration) *SessionManager {
	return &SessionManager{key: signingKey, issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs a new token for username.
func (m *SessionManager) Issue(username string, roles ...string) (string, *Session, error) {
	now := m.now().Truncate(time.Second)
	s := &Session{
		ID:        uuid.New().String(),
		Username:  username,
		Roles:     roles,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   username,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			NotBefore: jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		Roles: roles,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, s, nil
}

// Verify checks signature, issuer and expiry. Revocation is checked by the
// middleware, which owns the revocation store.
func (m *SessionManager) Verify(tokenStr string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing jti or sub", ErrInvalidToken)
	}

	s := &Session{
		ID:        claims.ID,
		Username:  claims.Subject,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s, nil
}
