// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"chore-cli/internal/config"
	"chore-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool

	// configFile is an explicit config path (--config flag); empty means
	// the platform default location.
	configFile string

	// globalConfig holds the loaded configuration for all subcommands.
	// nil until initRootConfig runs; falls back to defaults on load failure.
	globalConfig *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "chore",
		Short: "A task runner for project chores",
		Long: TitleStyle.Render("chore") + SubtitleStyle.Render(" - A task runner for project chores") + `

chore runs the repetitive tasks of a project: cleaning build artifacts,
linting, testing, installing. Tasks are defined in a 'chorefile.cue'
using CUE format, with dependencies between tasks.

Without a chorefile, a builtin set of Python project chores is available
(clean-pyc, clean-build, clean, lint, test, install), so 'chore test'
works in a bare checkout.

` + SubtitleStyle.Render("Examples:") + `
  chore list                List all available tasks
  chore run test            Clean stale bytecode, then run the test suite
  chore run clean           Remove build artifacts and bytecode
  chore run test --watch    Re-run tests when source files change
  chore init                Create a new chorefile`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is the platform config directory)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// fang provides styled help/errors; version goes through fang.WithVersion
	// because fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig loads the global configuration before any command runs.
func initRootConfig() {
	cfg, _, err := loadConfig()
	if err != nil {
		// Surface config problems but keep running on defaults; a broken
		// global config should not block 'chore run clean'.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}
	globalConfig = cfg

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// loadConfig loads from the --config path when given, otherwise from the
// platform default location.
func loadConfig() (*config.Config, string, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
