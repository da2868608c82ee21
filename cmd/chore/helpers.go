// SPDX-License-Identifier: MPL-2.0

package main

import (
	"maps"
	"slices"
	"strings"
)

// cutEnvPair splits a NAME=VALUE pair. The name must be non-empty; the
// value may be empty ("NAME=" unsets to empty, which is distinct from
// not setting at all).
func cutEnvPair(pair string) (name, value string, ok bool) {
	name, value, found := strings.Cut(pair, "=")
	if !found || name == "" {
		return "", "", false
	}
	return name, value, true
}

// sortedKeys returns the keys of m in sorted order for stable output.
func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
