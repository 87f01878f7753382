package graph

import (
	"regexp"
	"sort"
	"strings"
)

// ResolveLabel matches a patch-side label against a table of registered
// endpoint names. Keys are scanned in lexicographic order and each is tested
// as a prefix pattern `^<key>_?(.+)?`; the last matching key in sorted order
// wins, so a longer, more specific key registered under a shared prefix
// overrides the shorter one. The returned rest is the capture group, or the
// full label when the key consumed it entirely.
//
// The scan is deterministic and idempotent: the same table contents always
// resolve the same label to the same key.
func ResolveLabel(label string, keys []string) (key, rest string, ok bool) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	for _, k := range sorted {
		re := regexp.MustCompile(`^` + regexp.QuoteMeta(k) + `_?(.+)?`)
		m := re.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		key = k
		rest = m[1]
		if rest == "" {
			rest = label
		}
		ok = true
	}
	return key, rest, ok
}

// splitTypeSuffix detects a trailing int/bool type token on a resolved label
// fragment and strips it. The default parameter type is float.
func splitTypeSuffix(rest string) (clean, typ string) {
	switch {
	case rest == "int" || strings.HasSuffix(rest, "_int"):
		return strings.TrimSuffix(strings.TrimSuffix(rest, "int"), "_"), "int"
	case rest == "bool" || strings.HasSuffix(rest, "_bool"):
		return strings.TrimSuffix(strings.TrimSuffix(rest, "bool"), "_"), "bool"
	default:
		return rest, "float"
	}
}
