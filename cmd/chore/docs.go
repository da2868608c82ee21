// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"chore-cli/internal/discovery"
	"chore-cli/pkg/chorefile"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	docsWidth int
	docsPlain bool

	// docsCmd renders a task reference for the discovered chorefile.
	docsCmd = &cobra.Command{
		Use:   "docs [task]",
		Short: "Show task documentation",
		Long: `Render a reference of all tasks, or detailed documentation for one task.

Output is markdown rendered for the terminal; use --plain for raw
markdown suitable for piping into a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDocs,
	}
)

func init() {
	docsCmd.Flags().IntVar(&docsWidth, "width", 100, "word wrap width for rendered output")
	docsCmd.Flags().BoolVar(&docsPlain, "plain", false, "emit raw markdown without terminal styling")
}

func runDocs(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	found, err := discovery.Discover(wd)
	if err != nil {
		return renderError(err)
	}
	cf := found.Chorefile

	var md string
	if len(args) == 1 {
		task := cf.GetTask(args[0])
		if task == nil {
			return fmt.Errorf("task %q is not defined (run 'chore list' to see available tasks)", args[0])
		}
		md = taskMarkdown(cf, args[0], task)
	} else {
		md = referenceMarkdown(cf, found)
	}

	if docsPlain {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(docsWidth),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render documentation: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// referenceMarkdown builds the full task reference document.
func referenceMarkdown(cf *chorefile.Chorefile, found *discovery.DiscoveredFile) string {
	var sb strings.Builder
	sb.WriteString("# Task Reference\n\n")
	if found.Source == discovery.SourceBuiltin {
		sb.WriteString("_Builtin defaults; create a chorefile.cue with `chore init` to customize._\n\n")
	} else {
		fmt.Fprintf(&sb, "_Source: %s_\n\n", found.Path)
	}

	for _, name := range cf.TaskNames() {
		sb.WriteString(taskMarkdown(cf, name, cf.GetTask(name)))
	}

	if len(cf.Vars) > 0 {
		sb.WriteString("## Variables\n\n")
		sb.WriteString("Defaults below are overridden by the environment, `--var-file`, and `--var`, in that order.\n\n")
		sb.WriteString("| Name | Default |\n|------|--------|\n")
		for _, k := range sortedKeys(cf.Vars) {
			fmt.Fprintf(&sb, "| `%s` | `%s` |\n", k, cf.Vars[k])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// taskMarkdown builds the markdown section for a single task.
func taskMarkdown(cf *chorefile.Chorefile, name string, task *chorefile.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", name)
	if task.Description != "" {
		sb.WriteString(task.Description + "\n\n")
	}
	if len(task.Deps) > 0 {
		fmt.Fprintf(&sb, "**Depends on:** %s\n\n", strings.Join(task.Deps, ", "))
	}
	if task.Runtime != "" {
		fmt.Fprintf(&sb, "**Runtime:** %s\n\n", string(task.Runtime))
	}
	if task.Script != "" {
		sb.WriteString("```sh\n")
		sb.WriteString(strings.TrimRight(task.Script, "\n"))
		sb.WriteString("\n```\n\n")
	}
	if len(task.Watch) > 0 {
		fmt.Fprintf(&sb, "**Watch:** `%s`\n\n", strings.Join(task.Watch, "`, `"))
	}
	return sb.String()
}
