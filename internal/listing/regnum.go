package listing

import (
	"cmp"
	"strconv"
	"strings"
)

// RegisterNumber is a parsed patient register number "<n>/<YY>".
type RegisterNumber struct {
	Number int
	Year   int
}

// ParseRegisterNumber parses "<n>/<YY>" where YY is a two-digit year in the
// 2000s; a four-digit year is taken as written. Both parts must be plain
// non-negative integers.
func ParseRegisterNumber(s string) (RegisterNumber, bool) {
	num, year, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return RegisterNumber{}, false
	}
	num = strings.TrimSpace(num)
	year = strings.TrimSpace(year)

	n, ok := digits(num)
	if !ok {
		return RegisterNumber{}, false
	}
	y, ok := digits(year)
	if !ok {
		return RegisterNumber{}, false
	}

	switch len(year) {
	case 1, 2:
		y += 2000
	case 4:
	default:
		return RegisterNumber{}, false
	}
	return RegisterNumber{Number: n, Year: y}, true
}

func digits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Compare orders by year, then number.
func (r RegisterNumber) Compare(o RegisterNumber) int {
	if c := cmp.Compare(r.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(r.Number, o.Number)
}
