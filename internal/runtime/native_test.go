// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"chore-cli/pkg/chorefile"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}
	if !NewNativeRuntime().Available() {
		t.Skip("no shell available")
	}
}

func nativeContext(t *testing.T, task *chorefile.Task) *ExecutionContext {
	t.Helper()
	cf := &chorefile.Chorefile{
		FilePath: filepath.Join(t.TempDir(), "chorefile.cue"),
		Tasks:    map[string]chorefile.Task{},
	}
	return NewExecutionContext(task, cf)
}

func TestNativeRuntime_Validate(t *testing.T) {
	t.Parallel()

	rt := NewNativeRuntime()
	if err := rt.Validate(&ExecutionContext{}); err == nil {
		t.Error("nil task should fail validation")
	}
	if err := rt.Validate(&ExecutionContext{Task: &chorefile.Task{}}); err == nil {
		t.Error("empty script should fail validation")
	}
	if err := rt.Validate(&ExecutionContext{Task: &chorefile.Task{Script: "true"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNativeRuntime_ExecuteCapture(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	ctx := nativeContext(t, &chorefile.Task{Script: "echo hello"})
	result := NewNativeRuntime().ExecuteCapture(ctx)
	if !result.Success() {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimSpace(result.Output) != "hello" {
		t.Errorf("Output = %q", result.Output)
	}
}

func TestNativeRuntime_ExitCodePassThrough(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	ctx := nativeContext(t, &chorefile.Task{Script: "exit 42"})
	result := NewNativeRuntime().ExecuteCapture(ctx)
	if result.ExitCode != 42 {
		t.Errorf("ExitCode = %d, want 42", result.ExitCode)
	}
	if result.Error != nil {
		t.Errorf("a plain non-zero exit is not an execution error: %v", result.Error)
	}
}

func TestNativeRuntime_EnvReachesScript(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	ctx := nativeContext(t, &chorefile.Task{Script: "echo $TEST_PATH"})
	ctx.Vars = map[string]string{"TEST_PATH": "./test/online_test.py"}

	result := NewNativeRuntime().ExecuteCapture(ctx)
	if !result.Success() {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimSpace(result.Output) != "./test/online_test.py" {
		t.Errorf("Output = %q", result.Output)
	}
}

func TestNativeRuntime_WorkDir(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	ctx := nativeContext(t, &chorefile.Task{Script: "pwd"})
	want := filepath.Dir(ctx.Chorefile.FilePath)

	result := NewNativeRuntime().ExecuteCapture(ctx)
	if !result.Success() {
		t.Fatalf("expected success, got %+v", result)
	}
	if got := strings.TrimSpace(result.Output); got != want {
		t.Errorf("script ran in %q, want chorefile dir %q", got, want)
	}
}

func TestNativeRuntime_GetShellArgs(t *testing.T) {
	t.Parallel()

	rt := NewNativeRuntime()
	cases := map[string][]string{
		"/bin/bash":    {"-c"},
		"/usr/bin/zsh": {"-c"},
		"cmd.exe":      {"/C"},
		"pwsh.exe":     {"-NoProfile", "-Command"},
	}
	for shell, want := range cases {
		got := rt.getShellArgs(shell)
		if len(got) != len(want) || got[0] != want[0] {
			t.Errorf("getShellArgs(%q) = %v, want %v", shell, got, want)
		}
	}
}
