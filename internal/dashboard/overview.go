package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/neuraq/careadmin/internal/platform/auth"
	"github.com/neuraq/careadmin/internal/platform/docstore"
)

// OverviewCollections are the collections charted on the home screen, in
// display order.
var OverviewCollections = []string{
	docstore.Patients,
	docstore.Reports,
	docstore.Users,
	docstore.LoginData,
}

// Count is one bar of the home chart.
type Count struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Overview counts documents per collection.
type Overview struct {
	store       docstore.Store
	collections []string
	logger      zerolog.Logger
}

func NewOverview(store docstore.Store, logger zerolog.Logger, collections ...string) *Overview {
	if len(collections) == 0 {
		collections = OverviewCollections
	}
	return &Overview{store: store, collections: collections, logger: logger}
}

// Counts queries every collection concurrently. Any failure fails the whole
// overview; partial charts are not shown.
func (o *Overview) Counts(ctx context.Context) ([]Count, error) {
	out := make([]Count, len(o.collections))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range o.collections {
		i, name := i, name
		g.Go(func() error {
			n, err := o.store.Count(ctx, name)
			if err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			out[i] = Count{Name: name, Value: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *Overview) RegisterRoutes(api *echo.Group) {
	api.GET("/overview", o.Get, auth.RequireRole(auth.RoleAdmin))
}

func (o *Overview) Get(c echo.Context) error {
	counts, err := o.Counts(c.Request().Context())
	if err != nil {
		o.logger.Error().Err(err).Msg("overview failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load overview. Please try again later.")
	}
	return c.JSON(http.StatusOK, counts)
}
