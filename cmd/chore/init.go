// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"chore-cli/pkg/chorefile"

	"github.com/spf13/cobra"
)

var (
	initForce bool

	// initCmd writes a starter chorefile into the current directory.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a starter chorefile",
		Long: `Create a chorefile.cue in the current directory, pre-filled with the
builtin Python project chores as a starting point. Edit the generated
file to fit the project.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing chorefile")
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	fileName := chorefile.ChorefileName + ".cue"
	path := filepath.Join(wd, fileName)

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", fileName)
	}

	content := chorefile.GenerateCUE(chorefile.Starter())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, SuccessStyle.Render("✓")+" Created "+TaskStyle.Render(fileName))
	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(out, "  chore list        See the available tasks")
	fmt.Fprintln(out, "  chore run test    Run the test suite")
	return nil
}
