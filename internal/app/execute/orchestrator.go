// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"chore-cli/internal/config"
	"chore-cli/internal/graph"
	"chore-cli/internal/issue"
	rt "chore-cli/internal/runtime"
	"chore-cli/pkg/chorefile"
	"chore-cli/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// Step is one task in an execution plan.
	Step struct {
		// Name is the task name.
		Name string
		// Task is the task definition.
		Task *chorefile.Task
		// Runtime is the resolved runtime mode. Empty for aggregate tasks,
		// which execute no script.
		Runtime chorefile.RuntimeMode
	}

	// Options configures a task run.
	Options struct {
		// Chorefile is the resolved chorefile.
		Chorefile *chorefile.Chorefile
		// Target is the requested task name.
		Target string
		// Config is the loaded global configuration. nil means defaults.
		Config *config.Config
		// RuntimeOverride forces a runtime for every step (--runtime flag).
		RuntimeOverride chorefile.RuntimeMode
		// Vars are the resolved chorefile variables.
		Vars map[string]string
		// Args are extra arguments after "--", forwarded to the target task
		// as CHORE_ARG* environment variables. Dependencies do not see them.
		Args []string
		// ExtraEnv holds --env-var flag values, highest env precedence.
		ExtraEnv map[string]string
		// WorkDir overrides the working directory for every step.
		WorkDir string
		// Verbose enables per-step logging.
		Verbose bool
		// Stdout, Stderr, and Stdin are the run's I/O streams.
		// nil values default to the process streams.
		Stdout io.Writer
		Stderr io.Writer
		Stdin  io.Reader
		// Registry supplies the runtimes. nil builds one from Config.
		Registry *rt.Registry
		// Logger receives verbose step logging. nil builds one on Stderr.
		Logger *log.Logger
	}

	// RunResult describes a completed (or failed) run.
	RunResult struct {
		// ExitCode is 0 on success, otherwise the failing script's exit code.
		ExitCode types.ExitCode
		// FailedTask names the step that stopped the run, if any.
		FailedTask string
		// Err is set when a step failed for a reason other than a non-zero
		// script exit (unknown task, cycle, runtime error).
		Err error
	}

	// UnknownTaskError is returned when the requested task is not defined.
	UnknownTaskError struct {
		Name      string
		Available []string
	}
)

// Error implements the error interface.
func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("task %q is not defined", e.Name)
}

// Plan resolves the dependency closure of target and returns the steps in
// execution order. The returned plan always ends with the target itself.
func Plan(cf *chorefile.Chorefile, target string, runtimeOverride chorefile.RuntimeMode, cfg *config.Config) ([]Step, error) {
	if cf.GetTask(target) == nil {
		return nil, &UnknownTaskError{Name: target, Available: cf.TaskNames()}
	}

	g := graph.New()
	for name := range cf.Tasks {
		g.AddNode(name)
	}
	for name, task := range cf.Tasks {
		for _, dep := range task.Deps {
			g.AddEdge(dep, name)
		}
	}

	order, err := g.Closure(target)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(order))
	for _, name := range order {
		task := cf.GetTask(name)
		step := Step{Name: name, Task: task}
		if !task.IsAggregate() {
			step.Runtime = resolveRuntime(task, runtimeOverride, cfg)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// resolveRuntime applies runtime-selection precedence:
//  1. CLI override
//  2. Task-level runtime
//  3. Config default runtime
//  4. Native
func resolveRuntime(task *chorefile.Task, override chorefile.RuntimeMode, cfg *config.Config) chorefile.RuntimeMode {
	if override != "" {
		return override
	}
	if task.Runtime != "" {
		return task.Runtime
	}
	if cfg != nil && cfg.DefaultRuntime != "" {
		return chorefile.RuntimeMode(cfg.DefaultRuntime)
	}
	return chorefile.RuntimeNative
}

// Run executes the target task and its dependency closure. Dependencies run
// before dependents; the run stops at the first failing step and reports that
// step's exit code. Aggregate tasks (deps only, no script) are planned but
// execute nothing.
func Run(ctx context.Context, opts Options) *RunResult {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(stderr, log.Options{
			Prefix: "chore",
		})
	}

	steps, err := Plan(opts.Chorefile, opts.Target, opts.RuntimeOverride, opts.Config)
	if err != nil {
		return &RunResult{ExitCode: 1, Err: planError(err, opts)}
	}

	registry := opts.Registry
	if registry == nil {
		cfg := opts.Config
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
		registry = rt.NewRegistryFromConfig(cfg)
	}

	for _, step := range steps {
		if step.Task.IsAggregate() {
			if opts.Verbose {
				logger.Info("skipping aggregate task", "task", step.Name)
			}
			continue
		}

		execCtx := rt.NewExecutionContext(step.Task, opts.Chorefile)
		execCtx.Context = ctx
		execCtx.Stdout = stdout
		execCtx.Stderr = stderr
		if opts.Stdin != nil {
			execCtx.Stdin = opts.Stdin
		}
		execCtx.Vars = opts.Vars
		execCtx.ExtraEnv = mergeExtraEnv(step, opts)
		execCtx.WorkDir = opts.WorkDir
		execCtx.Verbose = opts.Verbose
		execCtx.SelectedRuntime = step.Runtime

		if opts.Verbose {
			logger.Info("running task", "task", step.Name, "runtime", step.Runtime)
		}
		start := time.Now()

		result := registry.Execute(execCtx)
		if result.Error != nil {
			return &RunResult{
				ExitCode:   types.ExitCode(result.ExitCode),
				FailedTask: step.Name,
				Err: issue.NewErrorContext().
					WithOperation(fmt.Sprintf("run task '%s'", step.Name)).
					WithSuggestion("Check the task's script and runtime in the chorefile").
					Wrap(result.Error).
					BuildError(),
			}
		}
		if result.ExitCode != 0 {
			// A non-zero script exit is the task failing, not chore failing;
			// pass the code through without wrapping.
			return &RunResult{
				ExitCode:   types.ExitCode(result.ExitCode),
				FailedTask: step.Name,
			}
		}

		if opts.Verbose {
			logger.Info("task finished", "task", step.Name, "duration", time.Since(start).Round(time.Millisecond))
		}
	}

	return &RunResult{ExitCode: 0}
}

// mergeExtraEnv combines the flag-provided env with per-step metadata.
// CHORE_TASK and CHORE_RUNTIME let scripts introspect their own step; the
// runtime filters CHORE_* from inherited environments so they never leak
// into nested chore invocations.
//
// Extra arguments after "--" reach the target task only, as CHORE_ARGC,
// CHORE_ARG1..n, and a space-joined CHORE_ARGS for easy splicing into a
// command line (e.g. "py.test $TEST_PATH $CHORE_ARGS").
func mergeExtraEnv(step Step, opts Options) map[string]string {
	extra := make(map[string]string, len(opts.ExtraEnv)+2)
	extra["CHORE_TASK"] = step.Name
	extra["CHORE_RUNTIME"] = string(step.Runtime)
	if step.Name == opts.Target && len(opts.Args) > 0 {
		extra["CHORE_ARGC"] = strconv.Itoa(len(opts.Args))
		for i, arg := range opts.Args {
			extra["CHORE_ARG"+strconv.Itoa(i+1)] = arg
		}
		extra["CHORE_ARGS"] = strings.Join(opts.Args, " ")
	}
	for k, v := range opts.ExtraEnv {
		extra[k] = v
	}
	return extra
}

// planError decorates planning failures with actionable suggestions.
func planError(err error, opts Options) error {
	var unknown *UnknownTaskError
	if errors.As(err, &unknown) {
		ec := issue.NewErrorContext().
			WithOperation("resolve task").
			WithResource(unknown.Name).
			WithSuggestion("Run 'chore list' to see the available tasks")
		if opts.Chorefile.IsBuiltin() {
			ec = ec.WithSuggestion("No chorefile was found; only the builtin tasks are available")
		}
		return ec.Wrap(err).BuildError()
	}

	var cycle *graph.CycleError
	if errors.As(err, &cycle) {
		return issue.NewErrorContext().
			WithOperation("order task dependencies").
			WithSuggestion("Remove the circular 'deps' reference between the listed tasks").
			Wrap(err).
			BuildError()
	}

	return err
}
