// Package normalize turns loosely-shaped provider records into canonical
// model types. Field-name variants are resolved once, through a per-entity
// alias table, and records missing required fields are dropped.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Aliases maps a canonical key to the source keys accepted for it, in order
// of preference.
type Aliases map[string][]string

// Canonicalize returns a map holding only canonical keys. For each canonical
// key the first accepted source key with a non-empty value wins. Exact key
// matches are tried before a case- and separator-insensitive match.
func Canonicalize(raw map[string]any, aliases Aliases) map[string]any {
	out := make(map[string]any, len(aliases))
	if raw == nil {
		return out
	}

	folded := make(map[string]any, len(raw))
	for k, v := range raw {
		fk := foldKey(k)
		if _, exists := folded[fk]; !exists {
			folded[fk] = v
		}
	}

	for canonical, sources := range aliases {
		if v, ok := lookup(raw, folded, sources); ok {
			out[canonical] = v
		}
	}
	return out
}

func lookup(raw, folded map[string]any, sources []string) (any, bool) {
	for _, k := range sources {
		if v, ok := raw[k]; ok && !isEmpty(v) {
			return v, true
		}
	}
	for _, k := range sources {
		if v, ok := folded[foldKey(k)]; ok && !isEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

func foldKey(k string) string {
	var b strings.Builder
	b.Grow(len(k))
	for _, r := range strings.ToLower(k) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// str renders scalar values as trimmed strings.
func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// num reads a number from a JSON number or a numeric string ("85%", "0.7").
func num(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// strSlice accepts a JSON array of strings or a comma-separated string.
func strSlice(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, el := range t {
			if s := str(el); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Clamp01 forces f into [0,1]. NaN becomes 0.
func Clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// TruncateWords shortens s to at most limit runes, cutting at the last word
// boundary and appending "...". Strings that already fit are returned as is.
func TruncateWords(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}

	cut := runes[:limit]
	if runes[limit] != ' ' {
		if idx := lastSpace(cut); idx > 0 {
			cut = cut[:idx]
		}
	}
	trimmed := strings.TrimRight(string(cut), " ,;:.-")
	return trimmed + "..."
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}

func normalizeWebsite(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return u
	}
	if !strings.Contains(u, ".") || strings.ContainsAny(u, " \t") {
		return ""
	}
	return "https://" + u
}
