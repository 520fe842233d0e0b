package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/neuraq/careadmin/internal/platform/auth"
)

// Handler serves account creation. It is only mounted when
// USER_CREATION_ENABLED is set.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/users", h.CreateUser, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("create user")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user")
	}

	h.logger.Info().Str("user_id", a.ID).Str("created_by", auth.UserIDFromContext(c.Request().Context())).Msg("user created")
	return c.JSON(http.StatusCreated, a)
}
