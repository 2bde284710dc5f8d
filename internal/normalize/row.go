package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Row is one decoded spreadsheet row: column header to cell value.
// Cell values are strings, float64, int, bool or nil depending on the decoder.
type Row map[string]any

// lookup returns the first alias whose cell is present and non-blank.
// Aliases match column headers exactly (case-sensitive).
func (r Row) lookup(aliases []string) (any, bool) {
	for _, alias := range aliases {
		v, ok := r[alias]
		if !ok || isBlank(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// Str resolves aliases to a trimmed string, or def when none match
func (r Row) Str(aliases []string, def string) string {
	v, ok := r.lookup(aliases)
	if !ok {
		return def
	}
	return cellString(v)
}

// Int resolves aliases to an integer. Missing or non-numeric cells yield 0.
func (r Row) Int(aliases []string) int {
	v, ok := r.lookup(aliases)
	if !ok {
		return 0
	}
	return ParseInt(v)
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case float64:
		return math.IsNaN(t)
	}
	return false
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// ParseInt coerces a cell to an integer the way spreadsheet exports are read:
// the leading integer of a string counts ("12 days" is 12, "21.9" is 21),
// floats truncate toward zero, anything else is 0. It never fails.
func ParseInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case int32:
		return int(t)
	case float32:
		return truncFloat(float64(t))
	case float64:
		return truncFloat(t)
	case string:
		return leadingInt(t)
	}
	return 0
}

func truncFloat(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(math.Trunc(f))
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}
