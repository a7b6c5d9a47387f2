package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EqualsFormula builds the filterByFormula expression {field} = "value".
func EqualsFormula(field, value string) string {
	return fmt.Sprintf(`{%s} = "%s"`, field, escapeFormula(value))
}

func escapeFormula(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

var equalsPattern = regexp.MustCompile(`^\s*\{([^{}]+)\}\s*=\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)')\s*$`)

// formula is the subset of filterByFormula the SQL backend evaluates
// itself: a single field equality, or nothing.
type formula struct {
	field string
	value string
	all   bool
}

func parseFormula(expr string) (formula, error) {
	if strings.TrimSpace(expr) == "" {
		return formula{all: true}, nil
	}
	m := equalsPattern.FindStringSubmatch(expr)
	if m == nil {
		return formula{}, fmt.Errorf("unsupported formula %q", expr)
	}
	value := m[2]
	if value == "" {
		value = m[3]
	}
	return formula{field: strings.TrimSpace(m[1]), value: unescapeFormula(value)}, nil
}

func unescapeFormula(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// match compares scalars by their text form; list fields match when any
// element does, the way linked-record fields behave.
func (f formula) match(fields map[string]any) bool {
	if f.all {
		return true
	}
	v, ok := fields[f.field]
	if !ok || v == nil {
		return f.value == ""
	}
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if scalarText(item) == f.value {
				return true
			}
		}
		return false
	}
	return scalarText(v) == f.value
}

func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
