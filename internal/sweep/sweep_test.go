// SPDX-License-Identifier: MPL-2.0

package sweep

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeFile creates a file (and its parents) under root.
func writeFile(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

// pythonTree lays out a small Python project with artifacts to clean.
func pythonTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "sheetlib/client.py")
	writeFile(t, root, "sheetlib/client.pyc")
	writeFile(t, root, "sheetlib/helpers/ranges.pyo")
	writeFile(t, root, "sheetlib/__pycache__/client.cpython-312.pyc")
	writeFile(t, root, "test/test_ranges.py")
	writeFile(t, root, "test/test_ranges.py~")
	writeFile(t, root, "build/lib/client.py")
	writeFile(t, root, "dist/pkg-1.0.tar.gz")
	writeFile(t, root, "pkg.egg-info/PKG-INFO")
	writeFile(t, root, "setup.py")
	return root
}

func TestSweep_CleanPycPatterns(t *testing.T) {
	t.Parallel()
	root := pythonTree(t)

	report, err := Sweep(root, []string{"**/*.pyc", "**/*.pyo", "**/*~", "**/__pycache__/"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, gone := range []string{
		"sheetlib/client.pyc",
		"sheetlib/helpers/ranges.pyo",
		"sheetlib/__pycache__",
		"test/test_ranges.py~",
	} {
		if exists(root, gone) {
			t.Errorf("%s should have been removed", gone)
		}
	}
	for _, kept := range []string{"sheetlib/client.py", "test/test_ranges.py", "setup.py", "build"} {
		if !exists(root, kept) {
			t.Errorf("%s should have been kept", kept)
		}
	}

	if !slices.Contains(report.Dirs, "sheetlib/__pycache__") {
		t.Errorf("report.Dirs = %v, missing __pycache__", report.Dirs)
	}
	if !slices.Contains(report.Files, "sheetlib/client.pyc") {
		t.Errorf("report.Files = %v, missing client.pyc", report.Files)
	}
}

func TestSweep_CleanBuildPatterns(t *testing.T) {
	t.Parallel()
	root := pythonTree(t)

	report, err := Sweep(root, []string{"build/", "dist/", "*.egg-info"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, gone := range []string{"build", "dist", "pkg.egg-info"} {
		if exists(root, gone) {
			t.Errorf("%s should have been removed", gone)
		}
	}
	if !exists(root, "sheetlib/client.pyc") {
		t.Error("bytecode is not clean-build's business")
	}
	if report.Total() != 3 {
		t.Errorf("Total() = %d, want 3 (%v %v)", report.Total(), report.Files, report.Dirs)
	}
}

func TestSweep_DryRun(t *testing.T) {
	t.Parallel()
	root := pythonTree(t)

	report, err := Sweep(root, []string{"**/*.pyc", "build/"}, Options{DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !exists(root, "sheetlib/client.pyc") || !exists(root, "build") {
		t.Error("dry run must not delete anything")
	}
	if len(report.Files) == 0 || len(report.Dirs) == 0 {
		t.Errorf("dry run should still report matches: %v %v", report.Files, report.Dirs)
	}
}

func TestSweep_DirOnlyPatternSkipsFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "build") // a file named build, not a directory

	report, err := Sweep(root, []string{"build/"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists(root, "build") {
		t.Error("dir-only pattern must not remove a plain file")
	}
	if report.Total() != 0 {
		t.Errorf("Total() = %d, want 0", report.Total())
	}
}

func TestSweep_MatchedDirContentsNotListed(t *testing.T) {
	t.Parallel()
	root := pythonTree(t)

	report, err := Sweep(root, []string{"**/__pycache__/"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Files) != 0 {
		t.Errorf("contents of a matched dir should not be listed: %v", report.Files)
	}
	if !slices.Equal(report.Dirs, []string{"sheetlib/__pycache__"}) {
		t.Errorf("Dirs = %v", report.Dirs)
	}
}

func TestSweep_InvalidPattern(t *testing.T) {
	t.Parallel()
	if _, err := Sweep(t.TempDir(), []string{"[unclosed"}, Options{}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if _, err := Sweep(t.TempDir(), []string{""}, Options{}); err == nil {
		t.Fatal("expected error for empty pattern")
	}
}

func TestParsePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		glob    string
		dirOnly bool
		wantErr bool
	}{
		{raw: "**/*.pyc", glob: "**/*.pyc"},
		{raw: "build/", glob: "build", dirOnly: true},
		{raw: "**/__pycache__/", glob: "**/__pycache__", dirOnly: true},
		{raw: "/", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			p, err := ParsePattern(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePattern(%q) should fail", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePattern(%q): %v", tt.raw, err)
			}
			if p.Glob != tt.glob || p.DirOnly != tt.dirOnly {
				t.Errorf("ParsePattern(%q) = %+v", tt.raw, p)
			}
		})
	}
}
