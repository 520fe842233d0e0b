package docstore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// String reads a text field. Missing and null become "", numbers and
// booleans are formatted, and anything else is rendered with fmt.
func (d Document) String(key string) string {
	switch v := d.Data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool reads a flag. Strings "true"/"yes"/"1" count as true; anything else
// that is not a true bool or non-zero number is false.
func (d Document) Bool(key string) bool {
	switch v := d.Data[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	}
	return false
}

// timeLayouts are the string timestamp shapes written by the mobile clients.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"1/2/2006, 3:04:05 PM",
	"January 2, 2006 at 3:04:05 PM MST",
	"January 2, 2006 at 3:04:05 PM",
}

// Time reads a timestamp stored as a string, a time.Time, a
// {seconds, nanoseconds} object (with or without leading underscores), or
// epoch milliseconds. Zone-less strings are read in loc.
func (d Document) Time(key string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	return parseTime(d.Data[key], loc)
}

func parseTime(raw any, loc *time.Location) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		return parseTimeString(v, loc)
	case float64:
		return fromMillis(v)
	case int64:
		return fromMillis(float64(v))
	case int:
		return fromMillis(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromMillis(f)
	case map[string]any:
		sec, okS := number(v["seconds"])
		if !okS {
			sec, okS = number(v["_seconds"])
		}
		if !okS {
			return time.Time{}, false
		}
		nsec, okN := number(v["nanoseconds"])
		if !okN {
			nsec, _ = number(v["_nanoseconds"])
		}
		return time.Unix(int64(sec), int64(nsec)), true
	}
	return time.Time{}, false
}

func parseTimeString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// JS Date.toString appends " (Zone Name)".
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromMillis(ms float64) (time.Time, bool) {
	if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
