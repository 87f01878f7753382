// Package interp implements the placeholder language used by component and
// node code fragments. A fragment may reference fields of its owner as
// ${field}; each placeholder is resolved by explicit lookup in a field map.
// There is no expression evaluation, only substitution.
package interp

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe matches a single ${name} placeholder. Names are restricted
// to identifier characters so stray "$" in emitted C code passes through.
var placeholderRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Interpolate substitutes every ${name} placeholder in tmpl with the value
// from fields. It returns an error naming the first placeholder that has no
// entry in the field map.
func Interpolate(tmpl string, fields map[string]string) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[2 : len(m)-1]
		val, ok := fields[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return val
	})
	if missing != "" {
		return "", fmt.Errorf("unresolved placeholder %q", missing)
	}
	return out, nil
}

// Resolved reports whether s contains no residual placeholder syntax.
func Resolved(s string) bool {
	return !strings.Contains(s, "${")
}

// Placeholders returns the placeholder names referenced by tmpl, in order of
// first appearance.
func Placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
