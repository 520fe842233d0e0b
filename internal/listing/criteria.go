package listing

import (
	"strings"
	"time"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder accepts "asc"/"desc" in any case; anything else is not ok.
func ParseOrder(s string) (Order, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}
	return "", false
}

// All is the facet selection that imposes no constraint.
const All = "All"

// Day is a calendar date with no zone; bounds are resolved against the
// screen's location.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

const dayLayout = "2006-01-02"

// ParseDay parses YYYY-MM-DD.
func ParseDay(s string) (Day, bool) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(s))
	if err != nil {
		return Day{}, false
	}
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
}

func (d Day) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(dayLayout)
}

// Start is 00:00:00.000 of the day in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// End is 23:59:59.999 of the day in loc.
func (d Day) End(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, int(999*time.Millisecond), loc)
}

// Criteria is everything that narrows or orders a screen except paging.
type Criteria struct {
	Query   string
	Filters map[string]string
	From    *Day
	To      *Day
	Sort    string
	Order   Order
}

// HasDateRange reports whether either bound is set.
func (c Criteria) HasDateRange() bool {
	return c.From != nil || c.To != nil
}

// Filter returns the selection for a facet, or "" when unset.
func (c Criteria) Filter(name string) string {
	if c.Filters == nil {
		return ""
	}
	return c.Filters[name]
}

func selectsAll(v string) bool {
	return v == "" || strings.EqualFold(v, All)
}
