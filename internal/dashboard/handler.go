package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/neuraq/careadmin/internal/listing"
	"github.com/neuraq/careadmin/internal/platform/auth"
	"github.com/neuraq/careadmin/internal/platform/export"
	"github.com/neuraq/careadmin/internal/platform/middleware"
	"github.com/neuraq/careadmin/pkg/pagination"
)

// DeletePINHeader carries the delete PIN when the request has no body.
const DeletePINHeader = "X-Delete-PIN"

// Routes is implemented by every screen handler.
type Routes interface {
	RegisterRoutes(api *echo.Group)
}

type Handler[T any] struct {
	svc    *Service[T]
	logger zerolog.Logger
}

func NewHandler[T any](svc *Service[T], logger zerolog.Logger) *Handler[T] {
	return &Handler[T]{svc: svc, logger: logger.With().Str("screen", svc.screen.Name).Logger()}
}

func (h *Handler[T]) RegisterRoutes(api *echo.Group) {
	base := "/" + h.svc.screen.Name
	g := api.Group(base, auth.RequireRole(auth.RoleAdmin))
	g.GET("", h.List)
	g.GET("/facets", h.Facets)
	g.GET("/export", h.Export)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler[T]) List(c echo.Context) error {
	crit, err := ParseCriteria(c, h.svc.screen)
	if err != nil {
		return err
	}
	page, err := h.svc.List(c.Request().Context(), crit, pagination.FromContext(c, h.svc.screen.PageSize))
	if err != nil {
		return h.loadFailed(err)
	}
	return c.JSON(http.StatusOK, page.Response())
}

type facetsResponse struct {
	Facets       map[string][]string `json:"facets"`
	Sorts        []string            `json:"sorts"`
	DefaultSort  string              `json:"default_sort"`
	DefaultOrder listing.Order       `json:"default_order"`
	PageSize     int                 `json:"page_size"`
}

func (h *Handler[T]) Facets(c echo.Context) error {
	opts, err := h.svc.FacetOptions(c.Request().Context())
	if err != nil {
		return h.loadFailed(err)
	}
	spec := h.svc.screen.Spec
	resolved := spec.Resolve(listing.Criteria{})
	return c.JSON(http.StatusOK, facetsResponse{
		Facets:       opts,
		Sorts:        spec.SortNames(),
		DefaultSort:  resolved.Sort,
		DefaultOrder: resolved.Order,
		PageSize:     h.svc.screen.PageSize,
	})
}

func (h *Handler[T]) Export(c echo.Context) error {
	crit, err := ParseCriteria(c, h.svc.screen)
	if err != nil {
		return err
	}
	data, err := h.svc.Export(c.Request().Context(), crit)
	if err != nil {
		if errors.Is(err, ErrLoadFailed) {
			return h.loadFailed(err)
		}
		h.logger.Error().Err(err).Msg("export failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to export "+strings.ToLower(h.svc.screen.Title))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", h.svc.screen.Title+".xlsx"))
	return c.Blob(http.StatusOK, export.ContentType, data)
}

type deleteRequest struct {
	PIN string `json:"pin"`
}

func (h *Handler[T]) Delete(c echo.Context) error {
	id := c.Param("id")
	if strings.TrimSpace(id) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	pin := c.Request().Header.Get(DeletePINHeader)
	if pin == "" && c.Request().ContentLength != 0 {
		var req deleteRequest
		if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		pin = req.PIN
	}

	crit, err := ParseCriteria(c, h.svc.screen)
	if err != nil {
		return err
	}

	page, err := h.svc.Delete(c.Request().Context(), id, pin, crit, pagination.FromContext(c, h.svc.screen.PageSize))
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrPINRejected):
		c.Set(middleware.AuditNoteKey, "pin_rejected")
		return echo.NewHTTPError(http.StatusForbidden, "Incorrect PIN. Deletion canceled.")
	case errors.Is(err, ErrLoadFailed):
		return h.loadFailed(err)
	default:
		c.Set(middleware.AuditNoteKey, "delete_failed")
		h.logger.Error().Err(err).Str("record_id", id).Msg("delete failed")
		return echo.NewHTTPError(http.StatusInternalServerError, h.svc.screen.deleteError())
	}

	h.logger.Info().Str("record_id", id).Str("user", auth.UserIDFromContext(c.Request().Context())).Msg("record deleted")
	return c.JSON(http.StatusOK, page.Response())
}

func (h *Handler[T]) loadFailed(err error) error {
	h.logger.Error().Err(err).Msg("load failed")
	return echo.NewHTTPError(http.StatusInternalServerError, h.svc.screen.loadError())
}
