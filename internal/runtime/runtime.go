// SPDX-License-Identifier: MPL-2.0

// Package runtime provides the task execution runtime interface and implementations.
package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"chore-cli/pkg/chorefile"
)

// Runtime type constants for the execution environments.
const (
	RuntimeTypeNative  RuntimeType = "native"
	RuntimeTypeVirtual RuntimeType = "virtual"
)

type (
	// ExecutionContext contains all information needed to execute a task.
	ExecutionContext struct {
		// Task is the task to execute
		Task *chorefile.Task
		// Chorefile is the parent chorefile
		Chorefile *chorefile.Chorefile
		// Context is the Go context for cancellation
		Context context.Context
		// Stdout is where to write standard output
		Stdout io.Writer
		// Stderr is where to write standard error
		Stderr io.Writer
		// Stdin is where to read standard input
		Stdin io.Reader
		// Vars are the resolved chorefile variables, exported into the
		// task environment so scripts can reference $TEST_PATH etc.
		Vars map[string]string
		// ExtraEnv contains additional environment variables (--env-var flags).
		// These are set last and override all other environment variables.
		ExtraEnv map[string]string
		// WorkDir overrides the working directory
		WorkDir string
		// Verbose enables verbose output
		Verbose bool
		// SelectedRuntime is the runtime to use for execution (may differ from default)
		SelectedRuntime chorefile.RuntimeMode
	}

	// Result contains the result of a task execution
	Result struct {
		// ExitCode is the exit code of the task script
		ExitCode int
		// Error contains any error that occurred
		Error error
		// Output contains captured stdout (if captured)
		Output string
		// ErrOutput contains captured stderr (if captured)
		ErrOutput string
	}

	// Runtime defines the interface for task execution
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Execute runs a task in this runtime
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runtime is available on the current system
		Available() bool
		// Validate checks if a task can be executed with this runtime
		Validate(ctx *ExecutionContext) error
	}

	// CapturingRuntime is implemented by runtimes that support capturing output.
	CapturingRuntime interface {
		// ExecuteCapture runs a task and captures stdout/stderr.
		ExecuteCapture(ctx *ExecutionContext) *Result
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// Registry holds all available runtimes
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// NewExecutionContext creates a new execution context with defaults.
func NewExecutionContext(task *chorefile.Task, cf *chorefile.Chorefile) *ExecutionContext {
	selected := task.Runtime
	if selected == "" {
		selected = chorefile.RuntimeNative
	}

	return &ExecutionContext{
		Task:            task,
		Chorefile:       cf,
		Context:         context.Background(),
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Stdin:           os.Stdin,
		Vars:            make(map[string]string),
		ExtraEnv:        make(map[string]string),
		SelectedRuntime: selected,
	}
}

// Success returns true if the task executed successfully
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// NewRegistry creates a new runtime registry
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// Register adds a runtime to the registry
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("runtime '%s' not registered", typ)
	}
	return rt, nil
}

// GetForContext returns the appropriate runtime based on the execution context's selected runtime
func (r *Registry) GetForContext(ctx *ExecutionContext) (Runtime, error) {
	return r.Get(RuntimeType(ctx.SelectedRuntime))
}

// Available returns all available runtimes
func (r *Registry) Available() []RuntimeType {
	var types []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			types = append(types, typ)
		}
	}
	return types
}

// Execute runs a task using the appropriate runtime from the execution context
func (r *Registry) Execute(ctx *ExecutionContext) *Result {
	rt, err := r.GetForContext(ctx)
	if err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	if !rt.Available() {
		return &Result{
			ExitCode: 1,
			Error:    fmt.Errorf("runtime '%s' is not available on this system", rt.Name()),
		}
	}

	if err := rt.Validate(ctx); err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	return rt.Execute(ctx)
}

// EnvToSlice converts a map of environment variables to a slice
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}

// FilterChoreEnvVars filters out chore-internal environment variables from the
// given environment slice. This prevents leakage of CHORE_* bookkeeping
// variables when a task's script invokes chore recursively.
func FilterChoreEnvVars(environ []string) []string {
	result := make([]string, 0, len(environ))
	for _, e := range environ {
		name, _, ok := strings.Cut(e, "=")
		if !ok {
			// Malformed env var, keep it
			result = append(result, e)
			continue
		}
		if strings.HasPrefix(name, "CHORE_") {
			continue
		}
		result = append(result, e)
	}
	return result
}

// buildEnv merges the layered task environment. Precedence (lowest to highest):
// resolved vars, file-level env, task-level env, extra env from flags.
func buildEnv(ctx *ExecutionContext) map[string]string {
	env := make(map[string]string)

	for k, v := range ctx.Vars {
		env[k] = v
	}
	for k, v := range ctx.Chorefile.Env {
		env[k] = v
	}
	for k, v := range ctx.Task.Env {
		env[k] = v
	}
	for k, v := range ctx.ExtraEnv {
		env[k] = v
	}

	return env
}
