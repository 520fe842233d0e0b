package listing

import (
	"github.com/neuraq/careadmin/pkg/pagination"
)

// View is the navigation state of one screen: the loaded records, the
// current criteria and the current page. Changing criteria or page size
// returns to page 1; Next and Prev do nothing at the bounds.
type View[T any] struct {
	spec     Spec[T]
	records  []T
	criteria Criteria
	params   pagination.Params
	matched  []T
}

// NewView starts on page 1 with the spec's default ordering.
func NewView[T any](spec Spec[T], records []T, pageSize int) *View[T] {
	v := &View[T]{
		spec:    spec,
		records: records,
		params:  pagination.New(1, pageSize, pageSize),
	}
	v.criteria = spec.Resolve(Criteria{})
	v.rematch()
	return v
}

func (v *View[T]) rematch() {
	v.matched = Match(v.spec, v.records, v.criteria)
	v.params = v.params.Clamp(len(v.matched))
}

// SetCriteria replaces the criteria and returns to page 1.
func (v *View[T]) SetCriteria(c Criteria) {
	v.criteria = v.spec.Resolve(c)
	v.params.Page = 1
	v.rematch()
}

// SetPageSize changes the page size and returns to page 1.
func (v *View[T]) SetPageSize(size int) {
	v.params = pagination.New(1, size, v.params.PageSize)
	v.rematch()
}

// SetRecords swaps in a fresh fetch, keeping criteria and page where possible.
func (v *View[T]) SetRecords(records []T) {
	v.records = records
	v.rematch()
}

// GoTo moves to page k, clamped into range.
func (v *View[T]) GoTo(k int) {
	v.params.Page = k
	v.params = v.params.Clamp(len(v.matched))
}

// Next advances one page and reports whether it moved.
func (v *View[T]) Next() bool {
	if !v.params.HasNext(len(v.matched)) {
		return false
	}
	v.params.Page++
	return true
}

// Prev goes back one page and reports whether it moved.
func (v *View[T]) Prev() bool {
	if !v.params.HasPrevious() {
		return false
	}
	v.params.Page--
	return true
}

// Remove drops the record with id from the loaded set and every page
// derived from it. The current page is kept unless it no longer exists.
func (v *View[T]) Remove(id string) bool {
	removed := false
	kept := v.records[:0:0]
	for _, r := range v.records {
		if v.spec.ID(r) == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return false
	}
	v.records = kept
	v.rematch()
	return true
}

// Criteria returns the resolved criteria.
func (v *View[T]) Criteria() Criteria { return v.criteria }

// Matched returns every matching record in display order.
func (v *View[T]) Matched() []T { return v.matched }

// Current returns the visible page.
func (v *View[T]) Current() Page[T] {
	start, end := v.params.Bounds(len(v.matched))
	return Page[T]{
		Items:    v.matched[start:end],
		Total:    len(v.matched),
		Params:   v.params,
		Criteria: v.criteria,
	}
}
