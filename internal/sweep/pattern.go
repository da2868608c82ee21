// SPDX-License-Identifier: MPL-2.0

package sweep

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is a parsed sweep pattern. Patterns are doublestar globs matched
// against slash-separated paths relative to the sweep root; a trailing slash
// restricts the pattern to directories.
//
// Examples:
//
//	**/*.pyc        bytecode files at any depth
//	**/__pycache__/ cache directories at any depth
//	build/          the top-level build directory
//	*.egg-info      top-level egg-info files or directories
type Pattern struct {
	// Glob is the doublestar glob, without any trailing slash.
	Glob string
	// DirOnly restricts the pattern to directories.
	DirOnly bool
}

// ParsePattern parses and validates a single sweep pattern.
func ParsePattern(raw string) (Pattern, error) {
	if raw == "" {
		return Pattern{}, fmt.Errorf("empty sweep pattern")
	}

	dirOnly := strings.HasSuffix(raw, "/")
	glob := strings.TrimSuffix(raw, "/")
	if glob == "" {
		return Pattern{}, fmt.Errorf("invalid sweep pattern %q", raw)
	}

	if !doublestar.ValidatePattern(glob) {
		return Pattern{}, fmt.Errorf("invalid sweep pattern %q", raw)
	}

	return Pattern{Glob: glob, DirOnly: dirOnly}, nil
}

// ParsePatterns parses a list of raw patterns, failing on the first invalid one.
func ParsePatterns(raw []string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(raw))
	for _, r := range raw {
		p, err := ParsePattern(r)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Matches reports whether the pattern matches the given slash-separated
// relative path.
func (p Pattern) Matches(relPath string, isDir bool) bool {
	if p.DirOnly && !isDir {
		return false
	}
	// Glob validity is checked at parse time, so Match cannot fail here.
	ok, _ := doublestar.Match(p.Glob, relPath)
	return ok
}
