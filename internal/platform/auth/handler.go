package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler serves the login, logout and session endpoints.
type Handler struct {
	admin       *AdminAuthenticator
	sessions    *SessionManager
	revocations RevocationStore
	logger      zerolog.Logger
}

func NewHandler(admin *AdminAuthenticator, sessions *SessionManager, revocations RevocationStore, logger zerolog.Logger) *Handler {
	return &Handler{admin: admin, sessions: sessions, revocations: revocations, logger: logger}
}

// RegisterRoutes mounts the handlers on g. Extra middleware (a rate limiter)
// applies to login only.
func (h *Handler) RegisterRoutes(g *echo.Group, loginMW ...echo.MiddlewareFunc) {
	g.POST("/login", h.Login, loginMW...)
	g.POST("/logout", h.Logout)
	g.GET("/session", h.Current)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Session   *Session  `json:"session"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	if err := h.admin.Authenticate(req.Username, req.Password); err != nil {
		h.logger.Warn().Str("username", req.Username).Str("ip", c.RealIP()).Msg("login rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	}

	token, s, err := h.sessions.Issue(req.Username, RoleAdmin)
	if err != nil {
		h.logger.Error().Err(err).Msg("issue session")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start session")
	}

	h.logger.Info().Str("username", s.Username).Str("session_id", s.ID).Msg("login")
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: s.ExpiresAt,
		Username:  s.Username,
		Session:   s,
	})
}

// Logout revokes the caller's token until it expires.
func (h *Handler) Logout(c echo.Context) error {
	s := SessionFromContext(c.Request().Context())
	if s == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	if err := h.revocations.Revoke(c.Request().Context(), s.ID, s.ExpiresAt); err != nil {
		h.logger.Error().Err(err).Str("session_id", s.ID).Msg("revoke session")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to log out")
	}
	h.logger.Info().Str("username", s.Username).Str("session_id", s.ID).Msg("logout")
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Current(c echo.Context) error {
	s := SessionFromContext(c.Request().Context())
	if s == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(http.StatusOK, s)
}

// IsAuthError reports whether err came from credential or token checks.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenRevoked)
}
