// Package listing filters, sorts and pages an in-memory record set. Every
// screen configures one Spec and shares the same semantics:
//
//   - the free-text query is a case-insensitive substring match, OR-ed across
//     the searchable fields;
//   - facet selections and the date range are AND-ed with the query;
//   - records with an unparsable date are dropped once any bound is set;
//   - sort keys may mark values as missing, which keeps them at the tail in
//     both directions in their original relative order.
package listing

import (
	"time"
)

// Facet is a categorical filter. Values returns the record's values for the
// facet; a record matches a selection when any value equals it ignoring case.
type Facet[T any] struct {
	Name   string
	Values func(T) []string
	// Options lists the selectable values. When nil the options are the
	// distinct non-empty values of the records, in first-seen order.
	Options func(records []T) []string
}

// SortKey orders records. Missing, when set, reports records that cannot be
// ordered by this key.
type SortKey[T any] struct {
	Name    string
	Compare func(a, b T) int
	Missing func(T) bool
}

// Spec configures the engine for one record type.
type Spec[T any] struct {
	ID     func(T) string
	Search []func(T) string
	Facets []Facet[T]
	// Date is the field the date range applies to; nil disables ranges.
	Date         func(T) (time.Time, bool)
	Sorts        []SortKey[T]
	DefaultSort  string
	DefaultOrder Order
	// Location resolves date-range bounds; nil means time.Local.
	Location *time.Location
}

func (s Spec[T]) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func (s Spec[T]) sortKey(name string) (SortKey[T], bool) {
	for _, k := range s.Sorts {
		if k.Name == name {
			return k, true
		}
	}
	return SortKey[T]{}, false
}

// Resolve replaces an unknown sort key or order with the defaults.
func (s Spec[T]) Resolve(c Criteria) Criteria {
	if _, ok := s.sortKey(c.Sort); !ok {
		c.Sort = s.DefaultSort
	}
	if c.Order != Asc && c.Order != Desc {
		c.Order = s.DefaultOrder
		if c.Order == "" {
			c.Order = Asc
		}
	}
	return c
}

// FacetNames lists the configured facets in order.
func (s Spec[T]) FacetNames() []string {
	names := make([]string, len(s.Facets))
	for i, f := range s.Facets {
		names[i] = f.Name
	}
	return names
}

// SortNames lists the configured sort keys in order.
func (s Spec[T]) SortNames() []string {
	names := make([]string, len(s.Sorts))
	for i, k := range s.Sorts {
		names[i] = k.Name
	}
	return names
}

// FacetOptions returns, per facet, All followed by its options.
func (s Spec[T]) FacetOptions(records []T) map[string][]string {
	out := make(map[string][]string, len(s.Facets))
	for _, f := range s.Facets {
		var opts []string
		if f.Options != nil {
			opts = f.Options(records)
		} else {
			opts = distinctValues(records, f.Values)
		}
		out[f.Name] = append([]string{All}, opts...)
	}
	return out
}

func distinctValues[T any](records []T, values func(T) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		for _, v := range values(r) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
