// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"chore-cli/internal/discovery"

	"github.com/spf13/cobra"
)

// listCmd prints the available tasks from the discovered chorefile.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available tasks",
	Long:    "List all tasks from the nearest chorefile, or the builtin tasks when no chorefile exists.",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	found, err := discovery.Discover(wd)
	if err != nil {
		return renderError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Tasks")+" "+SubtitleStyle.Render(sourceLabel(found)))
	fmt.Fprintln(out)

	names := found.Chorefile.TaskNames()
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range names {
		task := found.Chorefile.GetTask(name)
		line := "  " + TaskStyle.Render(name) + strings.Repeat(" ", width-len(name))
		if task.Description != "" {
			line += "  " + SubtitleStyle.Render(task.Description)
		}
		if len(task.Deps) > 0 {
			line += " " + SubtitleStyle.Render("(deps: "+strings.Join(task.Deps, ", ")+")")
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("Run a task with 'chore run <task>'."))
	return nil
}

// sourceLabel describes where the listed tasks came from.
func sourceLabel(found *discovery.DiscoveredFile) string {
	if found.Source == discovery.SourceBuiltin {
		return "(builtin defaults, no chorefile found)"
	}
	return "(from " + found.Path + ")"
}
