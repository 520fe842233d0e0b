package listing

import (
	"strings"
	"time"

	"github.com/neuraq/careadmin/pkg/pagination"
)

// Page is one visible slice of the matching records.
type Page[T any] struct {
	Items    []T
	Total    int
	Params   pagination.Params
	Criteria Criteria
}

func (p Page[T]) TotalPages() int { return pagination.TotalPages(p.Total, p.Params.PageSize) }
func (p Page[T]) HasNext() bool   { return p.Params.HasNext(p.Total) }
func (p Page[T]) HasPrev() bool   { return p.Params.HasPrevious() }

// Response renders the page for the API.
func (p Page[T]) Response() *pagination.Response {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return pagination.NewResponse(items, p.Total, p.Params)
}

// Filter returns the records matching the query, facets and date range, in
// input order.
func Filter[T any](spec Spec[T], records []T, c Criteria) []T {
	q := strings.ToLower(c.Query)

	var from, to *time.Time
	if spec.Date != nil {
		loc := spec.location()
		if c.From != nil {
			start := c.From.Start(loc)
			from = &start
		}
		if c.To != nil {
			end := c.To.End(loc)
			to = &end
		}
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		if !matchesQuery(spec, r, q) {
			continue
		}
		if !matchesFacets(spec, r, c) {
			continue
		}
		if (from != nil || to != nil) && !inRange(spec, r, from, to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery[T any](spec Spec[T], r T, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range spec.Search {
		if strings.Contains(strings.ToLower(field(r)), q) {
			return true
		}
	}
	return false
}

func matchesFacets[T any](spec Spec[T], r T, c Criteria) bool {
	for _, f := range spec.Facets {
		want := c.Filter(f.Name)
		if selectsAll(want) {
			continue
		}
		hit := false
		for _, v := range f.Values(r) {
			if strings.EqualFold(v, want) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func inRange[T any](spec Spec[T], r T, from, to *time.Time) bool {
	d, ok := spec.Date(r)
	if !ok {
		return false
	}
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// Sort returns a sorted copy using the criteria's key and order, falling back
// to the spec defaults.
func Sort[T any](spec Spec[T], records []T, c Criteria) []T {
	c = spec.Resolve(c)
	key, ok := spec.sortKey(c.Sort)
	if !ok {
		out := make([]T, len(records))
		copy(out, records)
		return out
	}
	return sortRecords(records, key, c.Order)
}

// Match filters then sorts: the full ordered result a screen shows across all
// its pages, and what exports contain.
func Match[T any](spec Spec[T], records []T, c Criteria) []T {
	return Sort(spec, Filter(spec, records, c), c)
}

// Paginate cuts one page out of an already matched sequence. The requested
// page is clamped into range.
func Paginate[T any](matched []T, p pagination.Params) ([]T, pagination.Params) {
	p = p.Clamp(len(matched))
	start, end := p.Bounds(len(matched))
	return matched[start:end], p
}

// Apply runs the whole pipeline.
func Apply[T any](spec Spec[T], records []T, c Criteria, p pagination.Params) Page[T] {
	c = spec.Resolve(c)
	matched := Match(spec, records, c)
	items, p := Paginate(matched, p)
	return Page[T]{Items: items, Total: len(matched), Params: p, Criteria: c}
}
