// SPDX-License-Identifier: MPL-2.0

// Package discovery locates the chorefile for the current invocation.
//
// The search starts in the working directory and walks up through parent
// directories, the same way version control tools find their repository
// root. When no chorefile exists anywhere on the path, the embedded builtin
// chorefile is used, so `chore clean-pyc` works in a bare Python checkout
// with no setup at all.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"chore-cli/internal/issue"
	"chore-cli/pkg/chorefile"
)

const (
	// SourceCurrentDir indicates the chorefile was found in the working directory.
	SourceCurrentDir Source = iota
	// SourceAncestorDir indicates the chorefile was found in a parent directory.
	SourceAncestorDir
	// SourceBuiltin indicates no chorefile was found and the embedded
	// builtin defaults are in effect.
	SourceBuiltin
)

type (
	// Source represents where a chorefile was found.
	Source int

	// DiscoveredFile is the resolved chorefile for an invocation.
	DiscoveredFile struct {
		// Path is the absolute path to the chorefile, or "" for the builtin.
		Path string
		// Source indicates where the file was found.
		Source Source
		// Chorefile is the parsed content.
		Chorefile *chorefile.Chorefile
	}
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceCurrentDir:
		return "current directory"
	case SourceAncestorDir:
		return "ancestor directory"
	case SourceBuiltin:
		return "builtin defaults"
	default:
		return "unknown"
	}
}

// Discover resolves the chorefile starting from startDir. A chorefile that
// exists but fails to parse is a hard error; falling back to the builtin in
// that case would silently run the wrong tasks.
func Discover(startDir string) (*DiscoveredFile, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve search directory %q: %w", startDir, err)
	}

	source := SourceCurrentDir
	for dir := absDir; ; dir = filepath.Dir(dir) {
		path, found := probeDir(dir)
		if found {
			cf, err := chorefile.Parse(path)
			if err != nil {
				return nil, issue.NewErrorContext().
					WithOperation("load chorefile").
					WithResource(path).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Run 'chore init' in an empty directory to see a valid example").
					Wrap(err).
					BuildError()
			}
			return &DiscoveredFile{Path: path, Source: source, Chorefile: cf}, nil
		}

		if filepath.Dir(dir) == dir {
			break // filesystem root
		}
		source = SourceAncestorDir
	}

	builtin, err := chorefile.Builtin()
	if err != nil {
		return nil, fmt.Errorf("internal error: failed to load builtin chorefile: %w", err)
	}
	return &DiscoveredFile{Source: SourceBuiltin, Chorefile: builtin}, nil
}

// probeDir checks a single directory for a chorefile. The .cue extension is
// preferred; a bare "chorefile" is accepted for parity with extensionless
// task-runner conventions.
func probeDir(dir string) (string, bool) {
	for _, name := range []string{chorefile.ChorefileName + ".cue", chorefile.ChorefileName} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
