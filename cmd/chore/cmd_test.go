// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"strings"
	"testing"

	"chore-cli/internal/app/execute"
	"chore-cli/internal/discovery"
	"chore-cli/pkg/chorefile"
)

func TestCutEnvPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		wantName  string
		wantValue string
		wantOK    bool
	}{
		{"FOO=bar", "FOO", "bar", true},
		{"FOO=", "FOO", "", true},
		{"FOO=a=b", "FOO", "a=b", true},
		{"FOO", "", "", false},
		{"=bar", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		name, value, ok := cutEnvPair(tt.input)
		if name != tt.wantName || value != tt.wantValue || ok != tt.wantOK {
			t.Errorf("cutEnvPair(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.input, name, value, ok, tt.wantName, tt.wantValue, tt.wantOK)
		}
	}
}

func TestParseEnvVarFlags(t *testing.T) {
	t.Parallel()

	env, err := parseEnvVarFlags([]string{"A=1", "B=two"})
	if err != nil {
		t.Fatalf("parseEnvVarFlags: %v", err)
	}
	if env["A"] != "1" || env["B"] != "two" {
		t.Errorf("unexpected env: %v", env)
	}

	if _, err := parseEnvVarFlags([]string{"NOEQUALS"}); err == nil {
		t.Error("expected error for flag without '='")
	}

	env, err = parseEnvVarFlags(nil)
	if err != nil || env != nil {
		t.Errorf("parseEnvVarFlags(nil) = (%v, %v), want (nil, nil)", env, err)
	}
}

func TestParseRuntimeFlag(t *testing.T) {
	t.Parallel()

	mode, err := parseRuntimeFlag("")
	if err != nil || mode != "" {
		t.Errorf("empty flag: got (%q, %v)", mode, err)
	}

	mode, err = parseRuntimeFlag("virtual")
	if err != nil {
		t.Fatalf("parseRuntimeFlag(virtual): %v", err)
	}
	if mode != chorefile.RuntimeVirtual {
		t.Errorf("mode = %q, want %q", mode, chorefile.RuntimeVirtual)
	}

	if _, err := parseRuntimeFlag("container"); err == nil {
		t.Error("expected error for unknown runtime")
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	plain := &ExitError{Code: 3}
	if plain.Error() != "exit status 3" {
		t.Errorf("Error() = %q", plain.Error())
	}

	inner := errors.New("boom")
	wrapped := &ExitError{Code: 1, Err: inner}
	if wrapped.Error() != "boom" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, inner) {
		t.Error("expected Unwrap to expose the inner error")
	}
}

func TestRenderDryRun(t *testing.T) {
	t.Parallel()

	cf := &chorefile.Chorefile{
		Vars: map[string]string{"TEST_PATH": "./test/online_test.py"},
		Tasks: map[string]chorefile.Task{
			"clean-pyc": {Script: "sweep -q '**/*.pyc'", Runtime: chorefile.RuntimeVirtual},
			"test":      {Script: "py.test $TEST_PATH", Deps: []string{"clean-pyc"}},
			"all":       {Deps: []string{"test"}},
		},
	}

	var sb strings.Builder
	err := renderDryRun(&sb, cf, execute.Options{
		Chorefile: cf,
		Target:    "all",
		Vars:      map[string]string{"TEST_PATH": "./test/online_test.py"},
	})
	if err != nil {
		t.Fatalf("renderDryRun: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"Dry Run",
		"clean-pyc",
		"py.test $TEST_PATH",
		"(aggregate, no script)",
		"TEST_PATH=./test/online_test.py",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Dependency order: clean-pyc before test before the aggregate.
	if strings.Index(out, "clean-pyc") > strings.Index(out, "py.test") {
		t.Error("expected clean-pyc step before test step")
	}
}

func TestRenderDryRun_UnknownTask(t *testing.T) {
	t.Parallel()

	cf := &chorefile.Chorefile{Tasks: map[string]chorefile.Task{"lint": {Script: "flake8 ."}}}

	var sb strings.Builder
	err := renderDryRun(&sb, cf, execute.Options{Chorefile: cf, Target: "nope"})
	if err == nil {
		t.Fatal("expected error for unknown task")
	}
}

func TestSourceLabel(t *testing.T) {
	t.Parallel()

	builtin := &discovery.DiscoveredFile{Source: discovery.SourceBuiltin}
	if got := sourceLabel(builtin); !strings.Contains(got, "builtin") {
		t.Errorf("builtin label = %q", got)
	}

	local := &discovery.DiscoveredFile{Source: discovery.SourceCurrentDir, Path: "/proj/chorefile.cue"}
	if got := sourceLabel(local); !strings.Contains(got, "/proj/chorefile.cue") {
		t.Errorf("local label = %q", got)
	}
}

func TestReferenceMarkdown(t *testing.T) {
	t.Parallel()

	cf := chorefile.Starter()
	found := &discovery.DiscoveredFile{Source: discovery.SourceBuiltin, Chorefile: cf}

	md := referenceMarkdown(cf, found)

	for _, want := range []string{
		"# Task Reference",
		"## test",
		"## lint",
		"py.test $TEST_PATH",
		"**Depends on:** clean-pyc",
		"| `TEST_PATH` | `./test/online_test.py` |",
		"chore init",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestTaskMarkdown_RuntimeAndWatch(t *testing.T) {
	t.Parallel()

	cf := chorefile.Starter()
	md := taskMarkdown(cf, "clean-pyc", cf.GetTask("clean-pyc"))
	if !strings.Contains(md, "**Runtime:** virtual") {
		t.Errorf("markdown missing runtime line:\n%s", md)
	}

	md = taskMarkdown(cf, "test", cf.GetTask("test"))
	if !strings.Contains(md, "**Watch:** `**/*.py`") {
		t.Errorf("markdown missing watch line:\n%s", md)
	}
}

func TestGetVersionString(t *testing.T) {
	if got := getVersionString(); !strings.Contains(got, "dev") {
		t.Errorf("version = %q, want dev marker", got)
	}
}
