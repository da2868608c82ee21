// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// NativeRuntime executes task scripts using the system's default shell
type NativeRuntime struct {
	// Shell overrides the default shell
	Shell string
	// ShellArgs are arguments passed to the shell before the script
	ShellArgs []string
}

// NewNativeRuntime creates a new native runtime
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name
func (r *NativeRuntime) Name() string {
	return "native"
}

// Available returns whether this runtime is available
func (r *NativeRuntime) Available() bool {
	_, err := r.getShell("")
	return err == nil
}

// Validate checks if a task can be executed
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Task == nil {
		return fmt.Errorf("no task selected for execution")
	}
	if ctx.Task.Script == "" {
		return fmt.Errorf("task has no script to execute")
	}
	return nil
}

// Execute runs a task script using the system shell
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	cmd, err := r.prepare(ctx)
	if err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	cmd.Stdout = ctx.Stdout
	cmd.Stderr = ctx.Stderr
	cmd.Stdin = ctx.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &Result{ExitCode: exitErr.ExitCode(), Error: nil}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to execute task: %w", err)}
	}

	return &Result{ExitCode: 0}
}

// ExecuteCapture runs a task script and captures its output
func (r *NativeRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	cmd, err := r.prepare(ctx)
	if err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Error = runErr
		}
	}

	return result
}

// prepare builds the exec.Cmd for a task script.
func (r *NativeRuntime) prepare(ctx *ExecutionContext) (*exec.Cmd, error) {
	shell, err := r.getShell(ctx.Chorefile.DefaultShell)
	if err != nil {
		return nil, err
	}

	args := r.getShellArgs(shell)
	args = append(args, ctx.Task.Script)

	cmd := exec.CommandContext(ctx.Context, shell, args...)
	cmd.Dir = ctx.Chorefile.EffectiveWorkDir(ctx.Task, ctx.WorkDir)
	cmd.Env = append(FilterChoreEnvVars(os.Environ()), EnvToSlice(buildEnv(ctx))...)

	return cmd, nil
}

// getShell determines which shell to use. A chorefile-level default_shell
// takes precedence over the runtime-level override.
func (r *NativeRuntime) getShell(fileShell string) (string, error) {
	if fileShell != "" {
		return fileShell, nil
	}
	if r.Shell != "" {
		return r.Shell, nil
	}

	// Platform-specific defaults
	switch runtime.GOOS {
	case "windows":
		// Try PowerShell first, then cmd
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		// Unix-like: use SHELL env var, or fall back to common shells
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", fmt.Errorf("no shell found")
	}
}

// getShellArgs returns the arguments to pass to the shell
func (r *NativeRuntime) getShellArgs(shell string) []string {
	if len(r.ShellArgs) > 0 {
		return r.ShellArgs
	}

	base := filepath.Base(shell)
	base = strings.TrimSuffix(base, ".exe")

	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// Assume POSIX shell
		return []string{"-c"}
	}
}
