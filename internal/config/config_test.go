// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withConfigDir points the package at a temp config dir for the test's duration.
// Tests using it must not run in parallel; the override is package state.
func withConfigDir(t *testing.T, dir string) {
	t.Helper()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	withConfigDir(t, t.TempDir())

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path should be empty when no file exists, got %q", path)
	}
	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("DefaultRuntime = %q, want native", cfg.DefaultRuntime)
	}
	if !cfg.VirtualShell.EnableBuiltins {
		t.Error("builtins should be enabled by default")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
}

func TestLoad_PartialFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)

	content := "default_runtime: \"virtual\"\nui: verbose: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path == "" {
		t.Error("resolved path should name the loaded file")
	}
	if cfg.DefaultRuntime != RuntimeVirtual {
		t.Errorf("DefaultRuntime = %q, want virtual", cfg.DefaultRuntime)
	}
	if !cfg.UI.Verbose {
		t.Error("ui.verbose should be overridden to true")
	}
	// Untouched fields keep their defaults.
	if !cfg.VirtualShell.EnableBuiltins {
		t.Error("enable_builtins default should survive a partial config")
	}
}

func TestLoad_RejectsSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)

	content := "default_runtime: \"container\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(); err == nil {
		t.Error("expected error for runtime outside the schema")
	}
}

func TestLoad_RejectsMalformedCUE(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte("default_runtime: {{"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(); err == nil {
		t.Error("expected error for malformed CUE")
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file should exist: %v", err)
	}
	if !strings.Contains(string(data), "default_runtime") {
		t.Errorf("generated config should mention default_runtime: %q", data)
	}

	// Second call must not clobber an existing file.
	if err := os.WriteFile(path, []byte("default_runtime: \"virtual\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "virtual") {
		t.Error("CreateDefaultConfig must not overwrite an existing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)

	want := DefaultConfig()
	want.DefaultRuntime = RuntimeVirtual
	want.Shell = "/bin/zsh"
	want.UI.Verbose = true

	if err := Save(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DefaultRuntime != RuntimeVirtual || got.Shell != "/bin/zsh" || !got.UI.Verbose {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestRuntimeModeIsValid(t *testing.T) {
	t.Parallel()

	for _, m := range []RuntimeMode{RuntimeNative, RuntimeVirtual} {
		if valid, _ := m.IsValid(); !valid {
			t.Errorf("%q should be valid", m)
		}
	}

	valid, errs := RuntimeMode("container").IsValid()
	if valid {
		t.Fatal("container should not be a valid runtime mode")
	}
	if !errors.Is(errs[0], ErrInvalidConfigRuntimeMode) {
		t.Errorf("error should wrap the sentinel, got %v", errs[0])
	}
}

func TestConfigIsValid(t *testing.T) {
	t.Parallel()

	if valid, _ := DefaultConfig().IsValid(); !valid {
		t.Error("default config should be valid")
	}

	bad := DefaultConfig()
	bad.UI.ColorScheme = "sepia"
	valid, errs := bad.IsValid()
	if valid {
		t.Fatal("config with bad color scheme should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got %v", errs[0])
	}
}

func TestGenerateCUE_OmitsEmptyShell(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())
	if strings.Contains(out, "\nshell:") {
		t.Errorf("empty shell should be omitted: %q", out)
	}
	if !strings.Contains(out, "color_scheme: \"auto\"") {
		t.Errorf("generated CUE should carry UI defaults: %q", out)
	}
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.cue")
	if err := os.WriteFile(path, []byte("default_runtime: \"virtual\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.DefaultRuntime != RuntimeVirtual {
		t.Errorf("DefaultRuntime = %q, want virtual", cfg.DefaultRuntime)
	}
}

func TestLoadFile_MissingIsError(t *testing.T) {
	t.Parallel()

	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
