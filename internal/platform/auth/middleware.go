package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRolesKey contextKey = "user_roles"
	SessionKey   contextKey = "session"
)

// SessionConfig configures SessionMiddleware.
type SessionConfig struct {
	Manager     *SessionManager
	Revocations RevocationStore
	Skipper     func(c echo.Context) bool
	Logger      zerolog.Logger
}

// SessionMiddleware requires a valid, unrevoked bearer token and puts the
// session on the request context.
func SessionMiddleware(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			tokenStr, err := bearerToken(c.Request())
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			s, err := cfg.Manager.Verify(tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			ctx := c.Request().Context()
			revoked, err := cfg.Revocations.IsRevoked(ctx, s.ID)
			if err != nil {
				cfg.Logger.Error().Err(err).Str("session_id", s.ID).Msg("revocation check failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session check unavailable")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, ErrTokenRevoked.Error())
			}

			c.SetRequest(c.Request().WithContext(WithSession(ctx, s)))
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// WithSession stores s and its identity on ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, SessionKey, s)
	ctx = context.WithValue(ctx, UserIDKey, s.Username)
	ctx = context.WithValue(ctx, UserRolesKey, s.Roles)
	return ctx
}

func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(SessionKey).(*Session)
	return s
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(UserRolesKey).([]string)
	return roles
}
