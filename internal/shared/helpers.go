// Package shared provides common utility functions used across multiple
// packages in the packsmith codebase.
package shared

import "sort"

// SortedKeys returns the keys of a string-keyed map in lexical order.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// StringSet builds a membership set from a list of values.
func StringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}
