// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"chore-cli/internal/app/execute"
	"chore-cli/internal/discovery"
	"chore-cli/internal/vars"
	"chore-cli/internal/watch"
	"chore-cli/pkg/chorefile"

	"github.com/spf13/cobra"
)

var (
	runDryRun   bool
	runWatch    bool
	runRuntime  string
	runWorkdir  string
	runVarFlags []string
	runVarFiles []string
	runEnvVars  []string

	// runCmd executes a task and its dependency closure.
	runCmd = &cobra.Command{
		Use:   "run <task>",
		Short: "Run a task and its dependencies",
		Long: `Run a task defined in the chorefile, executing its dependencies first.

Dependencies run in topological order and the run stops at the first
failure. The exit code of a failing task's script becomes chore's own
exit code, so CI pipelines see the real status.

` + SubtitleStyle.Render("Examples:") + `
  chore run test                           Run tests (cleans bytecode first)
  chore run test --var TEST_PATH=./test/x.py
  chore run lint --runtime virtual
  chore run test --watch                   Re-run on source changes
  chore run clean --dry-run                Show the plan without executing
  chore run test -- -k test_update         Forward args as CHORE_ARGS`,
		Args: func(cmd *cobra.Command, args []string) error {
			n := cmd.ArgsLenAtDash()
			if n == -1 {
				n = len(args)
			}
			if n != 1 {
				return fmt.Errorf("expected exactly one task name, got %d (forward extra arguments after '--')", n)
			}
			return nil
		},
		RunE: runRun,
	}
)

func init() {
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "show the execution plan without running anything")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "re-run the task when watched files change")
	runCmd.Flags().StringVarP(&runRuntime, "runtime", "r", "", "force a runtime for all tasks (native, virtual)")
	runCmd.Flags().StringVar(&runWorkdir, "workdir", "", "override the working directory for all tasks")
	runCmd.Flags().StringArrayVar(&runVarFlags, "var", nil, "set a variable (NAME=VALUE, repeatable)")
	runCmd.Flags().StringArrayVar(&runVarFiles, "var-file", nil, "load variables from a TOML file (repeatable)")
	runCmd.Flags().StringArrayVar(&runEnvVars, "env-var", nil, "set an environment variable for task scripts (NAME=VALUE, repeatable)")
}

func runRun(cmd *cobra.Command, args []string) error {
	target := args[0]
	taskArgs := args[1:]

	runtimeOverride, err := parseRuntimeFlag(runRuntime)
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	found, err := discovery.Discover(wd)
	if err != nil {
		return renderError(err)
	}
	cf := found.Chorefile

	resolved, err := vars.Resolve(vars.Resolution{
		Defaults:  cf.Vars,
		Environ:   os.Environ(),
		Files:     runVarFiles,
		Overrides: runVarFlags,
	})
	if err != nil {
		return err
	}

	extraEnv, err := parseEnvVarFlags(runEnvVars)
	if err != nil {
		return err
	}

	opts := execute.Options{
		Chorefile:       cf,
		Target:          target,
		Config:          globalConfig,
		RuntimeOverride: runtimeOverride,
		Vars:            resolved,
		Args:            taskArgs,
		ExtraEnv:        extraEnv,
		WorkDir:         runWorkdir,
		Verbose:         verbose,
	}

	if runDryRun {
		return renderDryRun(cmd.OutOrStdout(), cf, opts)
	}

	if runWatch {
		return runWithWatch(cmd.Context(), cf, target, opts)
	}

	return executeOnce(cmd.Context(), opts)
}

// executeOnce runs the plan once and converts the result into an ExitError
// so the process exits with the failing script's status.
func executeOnce(ctx context.Context, opts execute.Options) error {
	result := execute.Run(ctx, opts)
	if result.ExitCode == 0 {
		return nil
	}
	if result.Err != nil {
		return &ExitError{Code: result.ExitCode, Err: renderError(result.Err)}
	}
	// Plain script failure: the script already wrote its diagnostics.
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗")+fmt.Sprintf(" task '%s' failed with exit status %d", result.FailedTask, result.ExitCode))
	return &ExitError{Code: result.ExitCode}
}

// runWithWatch runs the task once, then re-runs it on file changes until
// interrupted. The watch globs come from the task definition; without any,
// every non-ignored file under the chorefile directory triggers a re-run.
func runWithWatch(ctx context.Context, cf *chorefile.Chorefile, target string, opts execute.Options) error {
	task := cf.GetTask(target)
	if task == nil {
		// Let the orchestrator produce the full unknown-task error.
		return executeOnce(ctx, opts)
	}

	// First run happens immediately; failures don't stop watch mode.
	if err := executeOnce(ctx, opts); err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			return err
		}
	}

	w, err := watch.New(watch.Config{
		Patterns: task.Watch,
		BaseDir:  cf.EffectiveWorkDir(task, opts.WorkDir),
		OnChange: func(runCtx context.Context, changed []string) error {
			fmt.Fprintln(os.Stdout, SubtitleStyle.Render(fmt.Sprintf("─── %d file(s) changed, re-running '%s' ───", len(changed), target)))
			if err := executeOnce(runCtx, opts); err != nil {
				var exitErr *ExitError
				if errors.As(err, &exitErr) {
					return nil // already reported; keep watching
				}
				return err
			}
			fmt.Fprintln(os.Stdout, SuccessStyle.Render("✓")+" "+target)
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, SubtitleStyle.Render(fmt.Sprintf("watching for changes (task '%s', Ctrl-C to stop)", target)))
	return w.Run(ctx)
}

// parseRuntimeFlag validates the --runtime flag value.
func parseRuntimeFlag(value string) (chorefile.RuntimeMode, error) {
	if value == "" {
		return "", nil
	}
	mode := chorefile.RuntimeMode(value)
	if valid, errs := mode.IsValid(); !valid {
		return "", errs[0]
	}
	return mode, nil
}

// parseEnvVarFlags parses repeated NAME=VALUE --env-var flags.
func parseEnvVarFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(flags))
	for _, pair := range flags {
		name, value, ok := cutEnvPair(pair)
		if !ok {
			return nil, fmt.Errorf("invalid --env-var %q (expected NAME=VALUE)", pair)
		}
		env[name] = value
	}
	return env, nil
}

// renderError prints nothing but rewraps an error so ActionableErrors render
// their suggestions when cobra prints them.
func renderError(err error) error {
	return errors.New(formatErrorForDisplay(err, verbose))
}
