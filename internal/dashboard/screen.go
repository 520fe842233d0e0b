// Package dashboard binds an entity's listing configuration to the document
// store and exposes it over HTTP: list, facet options, export and
// PIN-gated delete. Each request loads its own snapshot of the collection.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/neuraq/careadmin/internal/listing"
	"github.com/neuraq/careadmin/internal/platform/docstore"
	"github.com/neuraq/careadmin/internal/platform/export"
)

// Screen describes one list resource.
type Screen[T any] struct {
	// Name is the route segment, e.g. "reports".
	Name string
	// Title names the export file and sheet, e.g. "Reports".
	Title      string
	Collection string
	// Noun is used in delete errors: "failed to delete <noun>".
	Noun      string
	Normalize func(docstore.Document) T
	Spec      listing.Spec[T]
	PageSize  int
	// Pushdown narrows the store read with predicates the criteria imply.
	// The in-memory filter still runs on what comes back.
	Pushdown func(listing.Criteria) docstore.Query
	// PushdownParams are extra query parameters copied into
	// Criteria.Filters for Pushdown. The engine ignores them, so the store
	// alone enforces them.
	PushdownParams []string
	Columns        []export.Column[T]
	// LoadError overrides the default fetch failure message.
	LoadError string
}

func (s Screen[T]) loadError() string {
	if s.LoadError != "" {
		return s.LoadError
	}
	return fmt.Sprintf("Failed to load %s. Please try again later.", strings.ToLower(s.Title))
}

func (s Screen[T]) deleteError() string {
	return "failed to delete " + s.Noun
}

// FilterParams lists every query parameter that lands in Criteria.Filters.
func (s Screen[T]) FilterParams() []string {
	return append(s.Spec.FacetNames(), s.PushdownParams...)
}

func (s Screen[T]) query(c listing.Criteria) docstore.Query {
	if s.Pushdown == nil {
		return docstore.Query{}
	}
	return s.Pushdown(c)
}

// Validate reports configuration mistakes at wiring time.
func (s Screen[T]) Validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("screen name is required")
	case s.Collection == "":
		return fmt.Errorf("screen %s: collection is required", s.Name)
	case s.Normalize == nil:
		return fmt.Errorf("screen %s: normalizer is required", s.Name)
	case s.Spec.ID == nil:
		return fmt.Errorf("screen %s: spec ID is required", s.Name)
	case len(s.Spec.Sorts) == 0:
		return fmt.Errorf("screen %s: at least one sort key is required", s.Name)
	}
	return nil
}
