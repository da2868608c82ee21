// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"chore-cli/internal/app/execute"
	"chore-cli/pkg/chorefile"
)

// renderDryRun prints the resolved execution plan without executing.
// It shows each step's runtime, working directory, and script, plus the
// resolved variables, so a user can see exactly what 'chore run' would do.
func renderDryRun(w io.Writer, cf *chorefile.Chorefile, opts execute.Options) error {
	steps, err := execute.Plan(cf, opts.Target, opts.RuntimeOverride, opts.Config)
	if err != nil {
		return renderError(err)
	}

	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("Target:"), opts.Target)
	fmt.Fprintf(w, "  %s %d step(s)\n", SubtitleStyle.Render("Plan:"), len(steps))

	for i, step := range steps {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render(fmt.Sprintf("%d.", i+1)), TaskStyle.Render(step.Name))
		if step.Task.IsAggregate() {
			fmt.Fprintf(w, "     %s\n", SubtitleStyle.Render("(aggregate, no script)"))
			continue
		}
		fmt.Fprintf(w, "     %s %s\n", SubtitleStyle.Render("runtime:"), string(step.Runtime))
		fmt.Fprintf(w, "     %s %s\n", SubtitleStyle.Render("workdir:"), cf.EffectiveWorkDir(step.Task, opts.WorkDir))
		fmt.Fprintf(w, "     %s\n", SubtitleStyle.Render("script:"))
		for line := range strings.SplitSeq(strings.TrimRight(step.Task.Script, "\n"), "\n") {
			fmt.Fprintf(w, "       %s\n", line)
		}
	}

	if len(opts.Vars) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+SubtitleStyle.Render("Variables:"))
		for _, k := range slices.Sorted(maps.Keys(opts.Vars)) {
			fmt.Fprintf(w, "    %s=%s\n", k, opts.Vars[k])
		}
	}

	fmt.Fprintln(w)
	return nil
}
