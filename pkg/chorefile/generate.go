// SPDX-License-Identifier: MPL-2.0

package chorefile

import (
	"fmt"
	"slices"
	"strings"
)

// GenerateCUE generates CUE text from a Chorefile struct.
// This is used by 'chore init' to scaffold a chorefile.cue.
func GenerateCUE(cf *Chorefile) string {
	var sb strings.Builder

	sb.WriteString("// Chorefile - task definitions for chore\n")
	sb.WriteString("// Run 'chore list' to see available tasks.\n\n")

	if cf.DefaultShell != "" {
		fmt.Fprintf(&sb, "default_shell: %q\n", cf.DefaultShell)
	}
	if cf.WorkDir != "" {
		fmt.Fprintf(&sb, "workdir: %q\n", cf.WorkDir)
	}

	generateStringMap(&sb, "vars", cf.Vars, "")
	generateStringMap(&sb, "env", cf.Env, "")

	sb.WriteString("tasks: {\n")
	for _, name := range cf.TaskNames() {
		task := cf.Tasks[name]
		generateTask(&sb, name, &task)
	}
	sb.WriteString("}\n")

	return sb.String()
}

// Starter returns a minimal chorefile suitable for a new project.
func Starter() *Chorefile {
	return &Chorefile{
		Vars: map[string]string{
			"TEST_PATH": "./test/online_test.py",
			"SRC_PATH":  ".",
		},
		Tasks: map[string]Task{
			"lint": {
				Description: "Run the style checker.",
				Script:      "flake8 $SRC_PATH",
			},
			"test": {
				Description: "Run the test suite.",
				Deps:        []string{"clean-pyc"},
				Script:      "py.test $TEST_PATH",
				Watch:       []string{"**/*.py"},
			},
			"clean-pyc": {
				Description: "Remove compiled bytecode and caches.",
				Runtime:     RuntimeVirtual,
				Script:      "sweep -q '**/*.pyc' '**/*.pyo' '**/*~' '**/__pycache__/'",
			},
		},
	}
}

// generateTask writes a single task block. Task names containing dashes need
// quoting to stay valid CUE labels.
func generateTask(sb *strings.Builder, name string, task *Task) {
	fmt.Fprintf(sb, "\t%s: {\n", quoteLabel(name))

	if task.Description != "" {
		fmt.Fprintf(sb, "\t\tdescription: %q\n", task.Description)
	}
	if len(task.Deps) > 0 {
		sb.WriteString("\t\tdeps: [")
		for i, dep := range task.Deps {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q", dep)
		}
		sb.WriteString("]\n")
	}
	if task.Script != "" {
		fmt.Fprintf(sb, "\t\tscript: %q\n", task.Script)
	}
	if task.Runtime != "" {
		fmt.Fprintf(sb, "\t\truntime: %q\n", string(task.Runtime))
	}
	generateStringMap(sb, "env", task.Env, "\t\t")
	if task.WorkDir != "" {
		fmt.Fprintf(sb, "\t\tworkdir: %q\n", task.WorkDir)
	}
	if len(task.Watch) > 0 {
		sb.WriteString("\t\twatch: [")
		for i, pattern := range task.Watch {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q", pattern)
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\t}\n")
}

// generateStringMap writes a sorted string-map block (vars, env) at the
// given indent. No-op for empty maps.
func generateStringMap(sb *strings.Builder, field string, m map[string]string, indent string) {
	if len(m) == 0 {
		return
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fmt.Fprintf(sb, "%s%s: {\n", indent, field)
	for _, k := range keys {
		fmt.Fprintf(sb, "%s\t%s: %q\n", indent, k, m[k])
	}
	fmt.Fprintf(sb, "%s}\n", indent)
}

// quoteLabel quotes a CUE label when it is not a bare identifier.
func quoteLabel(name string) string {
	for _, c := range name {
		if c == '-' {
			return fmt.Sprintf("%q", name)
		}
	}
	return name
}
