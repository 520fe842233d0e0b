package report

import (
	"strings"
	"time"

	"github.com/neuraq/careadmin/internal/dashboard"
	"github.com/neuraq/careadmin/internal/listing"
	"github.com/neuraq/careadmin/internal/platform/docstore"
	"github.com/neuraq/careadmin/internal/platform/export"
)

// Query parameters answered by the store rather than the engine.
const (
	ParamName    = "name"
	ParamAddress = "address"
)

// NewScreen configures the reports list. Dates are bucketed in loc.
func NewScreen(loc *time.Location) dashboard.Screen[Report] {
	return dashboard.Screen[Report]{
		Name:           "reports",
		Title:          "Reports",
		Collection:     docstore.Reports,
		Noun:           "report",
		Normalize:      func(d docstore.Document) Report { return FromDocument(d, loc) },
		Spec:           Spec(loc),
		PageSize:       10,
		Pushdown:       Pushdown,
		PushdownParams: []string{ParamName, ParamAddress},
		Columns:        Columns,
	}
}

// Spec searches form type, name and address; filters on form type and
// submission date; sorts by submission time (oldest first) or name.
func Spec(loc *time.Location) listing.Spec[Report] {
	return listing.Spec[Report]{
		ID: func(r Report) string { return r.ID },
		Search: []func(Report) string{
			func(r Report) string { return r.FormType },
			func(r Report) string { return r.Name },
			func(r Report) string { return r.Address },
		},
		Facets: []listing.Facet[Report]{{
			Name:    "formType",
			Values:  func(r Report) []string { return []string{r.FormType} },
			Options: func([]Report) []string { return FormTypes },
		}},
		Date: Report.submitted,
		Sorts: []listing.SortKey[Report]{
			listing.TimeKey("submittedAt", Report.submitted),
			listing.TextKey("name", func(r Report) string { return r.Name }),
		},
		DefaultSort:  "submittedAt",
		DefaultOrder: listing.Asc,
		Location:     loc,
	}
}

// Pushdown turns the name and address prefixes and an exact form type into
// store predicates, the same narrowing the mobile app's queries use.
func Pushdown(c listing.Criteria) docstore.Query {
	var q docstore.Query
	if v := c.Filter(ParamName); v != "" {
		q = q.Where(docstore.Prefix("name", v))
	}
	if v := c.Filter(ParamAddress); v != "" {
		q = q.Where(docstore.Prefix("address", v))
	}
	if v := c.Filter("formType"); v != "" && !strings.EqualFold(v, listing.All) {
		q = q.Where(docstore.Equal("formType", v))
	}
	return q
}

var Columns = []export.Column[Report]{
	{Header: "Form Type", Value: func(r Report) any { return export.OrNA(r.FormType) }},
	{Header: "Name", Width: 24, Value: func(r Report) any { return export.OrNA(r.Name) }},
	{Header: "Address", Width: 32, Value: func(r Report) any { return export.OrNA(r.Address) }},
	{Header: "Submitted At", Width: 30, Value: func(r Report) any { return r.Submitted }},
}
