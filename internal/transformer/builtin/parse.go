package builtin

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
)

// DefaultDateLayouts are tried in order by ParseDate when no layouts are
// configured.
var DefaultDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseFunc converts one non-missing cell value to the Go representation of
// a semantic kind, or fails.
type ParseFunc func(v any) (any, error)

// Registry maps each semantic kind to its parser.
type Registry map[schema.Kind]ParseFunc

// DefaultRegistry returns the parsers for int, float, text and date. Dates
// are parsed with layouts, or DefaultDateLayouts when layouts is empty.
func DefaultRegistry(layouts []string) Registry {
	return Registry{
		schema.KindInt:   ParseInt,
		schema.KindFloat: ParseFloat,
		schema.KindText:  ParseText,
		schema.KindDate:  ParseDate(layouts),
	}
}

// TypeError reports a cell that could not be coerced to its declared kind.
type TypeError struct {
	Column string
	Row    int // 0-based position in the table
	Value  any
	Kind   schema.Kind
	Err    error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot coerce %v to %s: %v", e.Column, e.Row, e.Value, e.Kind, e.Err)
}

func (e *TypeError) Unwrap() error { return e.Err }

// ParseInt yields int64. Integral floats (including the string "5.0") are
// accepted; fractional values are not.
func ParseInt(v any) (any, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float64:
		return integral(t)
	case float32:
		return integral(float64(t))
	case []byte:
		return parseIntString(string(t))
	case string:
		return parseIntString(t)
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func parseIntString(s string) (any, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not an integer")
	}
	return integral(f)
}

func integral(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not integral", f)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, fmt.Errorf("%v overflows int64", f)
	}
	return int64(f), nil
}

// ParseFloat yields a finite float64. NaN and infinities are rejected.
func ParseFloat(v any) (any, error) {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int64:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case []byte:
		return parseFloatString(string(t))
	case string:
		return parseFloatString(t)
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func parseFloatString(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("not a number")
	}
	return finite(f)
}

func finite(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v is not finite", f)
	}
	return f, nil
}

// ParseText yields string; non-string values are formatted with fmt.
func ParseText(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// ParseDate returns a parser yielding a time.Time truncated to the calendar
// day in UTC.
func ParseDate(layouts []string) ParseFunc {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return func(v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return day(t), nil
		case []byte:
			return parseDateString(string(t), layouts)
		case string:
			return parseDateString(t, layouts)
		default:
			return nil, fmt.Errorf("unsupported type %T", v)
		}
	}
}

func parseDateString(s string, layouts []string) (any, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return day(t), nil
		}
	}
	return nil, fmt.Errorf("no layout matches %q", s)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
