// Package fieldpath resolves dotted field identifiers like
// "variants.2.price" or "variants[2].price" into segment paths and
// applies reads and copy-on-write updates over nested product documents.
package fieldpath

import (
	"strconv"
	"strings"
)

// Parse splits a field identifier into canonical segments. Bracketed
// indices are normalized to dotted numeric segments, so "foo[2].bar"
// and "foo.2.bar" produce the same path. Empty segments are dropped;
// Parse never fails.
func Parse(name string) []string {
	replacer := strings.NewReplacer("[", ".", "]", "")
	parts := strings.Split(replacer.Replace(name), ".")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// Join renders segments back into the canonical dotted form.
func Join(segs []string) string {
	return strings.Join(segs, ".")
}

// Get walks the document along segs and returns the value found there.
// A numeric segment indexes a list when the current node is one,
// otherwise it is treated as a map key.
func Get(doc any, segs []string) (any, bool) {
	node := doc
	for _, seg := range segs {
		if list, ok := node.([]any); ok {
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(list) {
				return nil, false
			}
			node = list[idx]
			continue
		}
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node = m[seg]
	}
	return node, true
}

// Set writes value at segs and returns the new root. Every container on
// the path from the root to the leaf is shallow-copied so siblings keep
// their identity; callers holding the old root see no change.
// Unresolvable segments are created as object keys on the way down, and
// list writes past the end grow the list with nils.
func Set(doc map[string]any, segs []string, value any) map[string]any {
	if len(segs) == 0 {
		return doc
	}
	root, ok := setNode(doc, segs, value).(map[string]any)
	if !ok {
		return doc
	}
	return root
}

func setNode(node any, segs []string, value any) any {
	if len(segs) == 0 {
		return value
	}
	seg := segs[0]

	if list, ok := node.([]any); ok {
		if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 {
			next := make([]any, len(list))
			copy(next, list)
			for len(next) <= idx {
				next = append(next, nil)
			}
			next[idx] = setNode(next[idx], segs[1:], value)
			return next
		}
	}

	next := map[string]any{}
	if m, ok := node.(map[string]any); ok {
		for k, v := range m {
			next[k] = v
		}
	}
	next[seg] = setNode(next[seg], segs[1:], value)
	return next
}
