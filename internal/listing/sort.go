package listing

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collators keep per-comparison buffers, so each goroutine borrows its own.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// CompareText orders strings alphabetically for English readers: "amal"
// sorts next to "Amal", before "Beena".
func CompareText(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

// TextKey sorts by a string field with CompareText.
func TextKey[T any](name string, get func(T) string) SortKey[T] {
	return SortKey[T]{
		Name:    name,
		Compare: func(a, b T) int { return CompareText(get(a), get(b)) },
	}
}

// TimeKey sorts by an instant; records without one go to the tail.
func TimeKey[T any](name string, get func(T) (time.Time, bool)) SortKey[T] {
	return SortKey[T]{
		Name: name,
		Compare: func(a, b T) int {
			ta, _ := get(a)
			tb, _ := get(b)
			return ta.Compare(tb)
		},
		Missing: func(r T) bool {
			_, ok := get(r)
			return !ok
		},
	}
}

// RegisterNumberKey sorts by a "<n>/<YY>" register number: year first, then
// number. Missing or unparsable numbers go to the tail.
func RegisterNumberKey[T any](name string, get func(T) string) SortKey[T] {
	return SortKey[T]{
		Name: name,
		Compare: func(a, b T) int {
			ra, _ := ParseRegisterNumber(get(a))
			rb, _ := ParseRegisterNumber(get(b))
			return ra.Compare(rb)
		},
		Missing: func(r T) bool {
			_, ok := ParseRegisterNumber(get(r))
			return !ok
		},
	}
}

// sortRecords returns a sorted copy. Sorting is stable, direction applies to
// orderable records only, and missing records keep their input order at the
// end.
func sortRecords[T any](records []T, key SortKey[T], order Order) []T {
	present := make([]T, 0, len(records))
	var missing []T
	for _, r := range records {
		if key.Missing != nil && key.Missing(r) {
			missing = append(missing, r)
			continue
		}
		present = append(present, r)
	}

	sort.SliceStable(present, func(i, j int) bool {
		c := key.Compare(present[i], present[j])
		if order == Desc {
			return c > 0
		}
		return c < 0
	})

	return append(present, missing...)
}
