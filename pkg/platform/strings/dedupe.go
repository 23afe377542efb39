// Package strings holds small helpers for normalizing identifier lists.
package strings

import (
	"strings"
)

// DedupeBy keeps the first element for each key and preserves order. Elements
// whose key is empty are dropped.
func DedupeBy[T any](values []T, key func(T) string) []T {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]T, 0, len(values))
	for _, v := range values {
		k := key(v)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, v)
	}
	return result
}

// FoldKey is a DedupeBy key that ignores surrounding whitespace and case, so
// checksummed and lowercase hex forms of one identifier collapse.
func FoldKey[S ~string](s S) string {
	return strings.ToLower(strings.TrimSpace(string(s)))
}
