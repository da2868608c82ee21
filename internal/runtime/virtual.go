// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"chore-cli/internal/builtins"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes task scripts using mvdan/sh with optional builtin utilities.
// It requires no shell on the host, so scripts behave the same on every platform.
type VirtualRuntime struct {
	// EnableBuiltins exposes chore's builtin utilities (e.g. sweep) to scripts
	EnableBuiltins bool
}

// NewVirtualRuntime creates a new virtual runtime
func NewVirtualRuntime(enableBuiltins bool) *VirtualRuntime {
	return &VirtualRuntime{
		EnableBuiltins: enableBuiltins,
	}
}

// Name returns the runtime name
func (r *VirtualRuntime) Name() string {
	return "virtual"
}

// Available returns whether this runtime is available
func (r *VirtualRuntime) Available() bool {
	// Virtual runtime is always available as it's built-in
	return true
}

// Validate checks if a task can be executed
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Task == nil {
		return fmt.Errorf("no task selected for execution")
	}
	if ctx.Task.Script == "" {
		return fmt.Errorf("task has no script to execute")
	}

	// Parse the script to surface syntax errors before execution
	if _, err := syntax.NewParser().Parse(strings.NewReader(ctx.Task.Script), "script"); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}

	return nil
}

// Execute runs a task script using the virtual shell
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	return r.run(ctx, ctx.Stdout, ctx.Stderr, false)
}

// ExecuteCapture runs a task script and captures its output
func (r *VirtualRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	var stdout, stderr strings.Builder
	result := r.run(ctx, &stdout, &stderr, true)
	result.Output = stdout.String()
	result.ErrOutput = stderr.String()
	return result
}

// run parses and executes the script with the interpreter.
func (r *VirtualRuntime) run(ctx *ExecutionContext, stdout, stderr io.Writer, capture bool) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(ctx.Task.Script), "script")
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse script: %w", err)}
	}

	workDir := ctx.Chorefile.EffectiveWorkDir(ctx.Task, ctx.WorkDir)
	env := append(FilterChoreEnvVars(os.Environ()), EnvToSlice(buildEnv(ctx))...)

	opts := []interp.RunnerOption{
		interp.Dir(workDir),
		interp.Env(expand.ListEnviron(env...)),
		interp.ExecHandlers(r.execHandler),
	}
	if capture {
		opts = append(opts, interp.StdIO(nil, stdout, stderr))
	} else {
		opts = append(opts, interp.StdIO(ctx.Stdin, stdout, stderr))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	execCtx := ctx.Context
	if execCtx == nil {
		execCtx = context.Background()
	}

	if err := runner.Run(execCtx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &Result{ExitCode: int(exitStatus)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("script execution failed: %w", err)}
	}

	return &Result{ExitCode: 0}
}

// execHandler handles external command execution
func (r *VirtualRuntime) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		// First try chore builtins if enabled
		if r.EnableBuiltins {
			if handled, err := r.tryBuiltin(ctx, args); handled {
				return err
			}
		}

		// Fall back to default handler (external commands)
		return next(ctx, args)
	}
}

// tryBuiltin attempts to handle a command with chore builtins.
//
// Return semantics:
//   - (true, nil): handled successfully by a builtin
//   - (true, err): handled by a builtin but failed; the error is propagated
//     with no fallback to a system binary, so implementation bugs don't get
//     silently masked
//   - (false, nil): not a registered builtin; the caller falls back to the
//     system binary
func (r *VirtualRuntime) tryBuiltin(ctx context.Context, args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	cmd, found := builtins.DefaultRegistry.Lookup(args[0])
	if !found {
		return false, nil
	}

	return true, cmd.Run(ctx, args)
}
