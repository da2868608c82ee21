// SPDX-License-Identifier: MPL-2.0

// Package sweep removes build artifacts matching glob patterns. It is the
// engine behind the clean tasks: a single filesystem walk collects files and
// directories matching doublestar patterns and deletes them (directories
// recursively), with an optional dry-run mode that only reports what would
// be removed.
package sweep

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type (
	// Options configures a sweep.
	Options struct {
		// DryRun reports matches without deleting anything.
		DryRun bool
	}

	// Report lists what a sweep removed (or, under DryRun, would remove).
	// Paths are slash-separated and relative to the sweep root, in walk
	// (lexical) order. Matched directories appear in Dirs only; their
	// contents are not listed individually.
	Report struct {
		Files []string
		Dirs  []string
	}
)

// Total returns the number of removed entries (files plus directories).
func (r *Report) Total() int {
	return len(r.Files) + len(r.Dirs)
}

// Sweep walks root and removes entries matching any of the raw patterns.
// Matched directories are removed recursively and not descended into.
// The root itself is never removed. Entries that disappear between the walk
// and the removal are not errors.
func Sweep(root string, rawPatterns []string, opts Options) (*Report, error) {
	patterns, err := ParsePatterns(rawPatterns)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A parent matched and was removed mid-walk, or the entry
			// vanished; either way there is nothing left to sweep here.
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		isDir := d.IsDir()
		matched := false
		for _, p := range patterns {
			if p.Matches(rel, isDir) {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}

		if isDir {
			report.Dirs = append(report.Dirs, rel)
			if !opts.DryRun {
				if err := os.RemoveAll(path); err != nil {
					return fmt.Errorf("failed to remove directory %s: %w", rel, err)
				}
			}
			// Matched directories go as a unit; don't walk their contents.
			return fs.SkipDir
		}

		report.Files = append(report.Files, rel)
		if !opts.DryRun {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove file %s: %w", rel, err)
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return report, nil
}
