// Package normalize converts parsed, loosely-typed provider records into
// strictly-typed domain entities. Fields may be missing, wrong-typed, or
// null; every coercion has an explicit default and records that fail
// minimum-field validation are rejected rather than half-filled.
package normalize

import (
	"net/url"
	"strconv"
	"strings"
)

// Str coerces a value to a trimmed string. Scalars are stringified; objects
// and arrays have no sensible string form and collapse to "".
func Str(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// StrSlice coerces a value to a slice of trimmed, non-empty strings.
// Anything that is not an array coerces to an empty slice, never nil, so
// serialized entities carry [] instead of null.
func StrSlice(v any) []string {
	out := []string{}
	switch arr := v.(type) {
	case []any:
		for _, item := range arr {
			if s := Str(item); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, item := range arr {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Bool coerces a value to bool; anything but a literal true is false.
func Bool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// Float coerces a numeric value to float64, with ok=false for non-numbers.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Obj returns the value as a map when it is one, else nil. Callers treat a
// nil map as an empty-shaped default.
func Obj(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// URLs filters a coerced string slice down to syntactically valid http(s)
// URLs. Invalid entries are silently dropped, not repaired.
func URLs(v any) []string {
	out := []string{}
	for _, s := range StrSlice(v) {
		u, err := url.Parse(s)
		if err != nil {
			continue
		}
		if (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			out = append(out, s)
		}
	}
	return out
}
