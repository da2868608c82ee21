// SPDX-License-Identifier: MPL-2.0

package builtins

import (
	"context"
	"fmt"

	"chore-cli/internal/sweep"
)

// sweepCommand removes artifacts matching glob patterns.
//
// Usage: sweep [-n] [-q] PATTERN...
//
// Patterns are doublestar globs relative to the working directory; a trailing
// slash restricts a pattern to directories (removed recursively).
type sweepCommand struct {
	name  string
	flags []FlagInfo
}

func init() {
	RegisterDefault(newSweepCommand())
}

// newSweepCommand creates the sweep builtin.
func newSweepCommand() *sweepCommand {
	return &sweepCommand{
		name: "sweep",
		flags: []FlagInfo{
			{Name: "n", Description: "dry run: report matches without deleting"},
			{Name: "q", Description: "quiet: do not list removed paths"},
		},
	}
}

// Name returns the command name.
func (c *sweepCommand) Name() string {
	return c.name
}

// SupportedFlags returns the flags supported by this command.
func (c *sweepCommand) SupportedFlags() []FlagInfo {
	return c.flags
}

// Run executes the sweep command.
func (c *sweepCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var (
		dryRun   bool
		quiet    bool
		patterns []string
	)

	// args[0] is the command name.
	for _, arg := range args[1:] {
		switch arg {
		case "-n":
			dryRun = true
		case "-q":
			quiet = true
		case "-nq", "-qn":
			dryRun = true
			quiet = true
		default:
			if len(arg) > 1 && arg[0] == '-' {
				return c.wrapError(fmt.Errorf("unknown flag %q", arg))
			}
			patterns = append(patterns, arg)
		}
	}

	if len(patterns) == 0 {
		return c.wrapError(fmt.Errorf("usage: sweep [-n] [-q] PATTERN..."))
	}

	report, err := sweep.Sweep(hc.Dir, patterns, sweep.Options{DryRun: dryRun})
	if err != nil {
		return c.wrapError(err)
	}

	if !quiet {
		verb := "removed"
		if dryRun {
			verb = "would remove"
		}
		for _, f := range report.Files {
			fmt.Fprintf(hc.Stdout, "%s %s\n", verb, f)
		}
		for _, d := range report.Dirs {
			fmt.Fprintf(hc.Stdout, "%s %s/\n", verb, d)
		}
	}

	return nil
}

// wrapError wraps an error with the [builtin] prefix format, which
// distinguishes builtin failures from host shell errors in mixed output.
func (c *sweepCommand) wrapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[builtin] %s: %w", c.name, err)
}
