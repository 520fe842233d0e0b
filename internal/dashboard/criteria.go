package dashboard

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neuraq/careadmin/internal/listing"
)

// ParseCriteria reads q, one parameter per facet or pushdown filter, from,
// to, sort and order from the query string. Unknown sort keys and orders
// fall back to the screen defaults; malformed dates are rejected.
func ParseCriteria[T any](c echo.Context, s Screen[T]) (listing.Criteria, error) {
	crit, err := CriteriaFromValues(c.QueryParams(), s.FilterParams())
	if err != nil {
		return listing.Criteria{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return s.Spec.Resolve(crit), nil
}

// CriteriaFromValues is ParseCriteria without the echo context; the CLI uses
// it for --filter flags too.
func CriteriaFromValues(v url.Values, filters []string) (listing.Criteria, error) {
	crit := listing.Criteria{
		Query: strings.TrimSpace(v.Get("q")),
		Sort:  strings.TrimSpace(v.Get("sort")),
	}
	if o, ok := listing.ParseOrder(v.Get("order")); ok {
		crit.Order = o
	}

	for _, name := range filters {
		if sel := strings.TrimSpace(v.Get(name)); sel != "" {
			if crit.Filters == nil {
				crit.Filters = make(map[string]string, len(filters))
			}
			crit.Filters[name] = sel
		}
	}

	for _, b := range []struct {
		param string
		dst   **listing.Day
	}{{"from", &crit.From}, {"to", &crit.To}} {
		raw := strings.TrimSpace(v.Get(b.param))
		if raw == "" {
			continue
		}
		d, ok := listing.ParseDay(raw)
		if !ok {
			return listing.Criteria{}, &dateError{param: b.param, value: raw}
		}
		*b.dst = &d
	}
	return crit, nil
}

type dateError struct {
	param, value string
}

func (e *dateError) Error() string {
	return fmt.Sprintf("invalid %s date %q, expected YYYY-MM-DD", e.param, e.value)
}
