// SPDX-License-Identifier: MPL-2.0

package chorefile

import (
	"path/filepath"
	"slices"
)

// ChorefileName is the base name for chorefile configuration files.
const ChorefileName = "chorefile"

// Runtime mode constants for task execution.
const (
	// RuntimeNative runs scripts through the system shell.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs scripts through the in-process shell interpreter.
	RuntimeVirtual RuntimeMode = "virtual"
)

type (
	// RuntimeMode identifies which runtime executes a task's script.
	RuntimeMode string

	// Chorefile represents task definitions from chorefile.cue.
	Chorefile struct {
		// DefaultShell overrides the default shell for the native runtime.
		DefaultShell string `json:"default_shell,omitempty"`
		// WorkDir is the default working directory for all tasks.
		// Can be absolute or relative to the chorefile location; forward
		// slashes should be used for cross-platform compatibility.
		WorkDir string `json:"workdir,omitempty"`
		// Vars are overridable variables injected into task environments.
		// A chorefile value is a default: the process environment, var
		// files, and --var flags override it, in that order.
		Vars map[string]string `json:"vars,omitempty"`
		// Env is the file-level environment applied to every task.
		Env map[string]string `json:"env,omitempty"`
		// Tasks defines the available tasks, keyed by name.
		Tasks map[string]Task `json:"tasks"`

		// FilePath stores the path this chorefile was loaded from (not in CUE).
		// Empty for the embedded builtin chorefile.
		FilePath string `json:"-"`
	}

	// Task is a single named task.
	Task struct {
		// Description is shown by 'chore list' and rendered by 'chore docs'.
		Description string `json:"description,omitempty"`
		// Deps are tasks that must complete successfully before this one.
		Deps []string `json:"deps,omitempty"`
		// Script is the shell script to execute. Empty only for aggregate
		// tasks that exist purely to group deps.
		Script string `json:"script,omitempty"`
		// Runtime selects the execution runtime. Empty means "use default".
		Runtime RuntimeMode `json:"runtime,omitempty"`
		// Env is task-level environment, overriding file-level env.
		Env map[string]string `json:"env,omitempty"`
		// WorkDir overrides the working directory for this task.
		WorkDir string `json:"workdir,omitempty"`
		// Watch lists glob patterns that re-trigger this task under --watch.
		Watch []string `json:"watch,omitempty"`
	}
)

// IsValid returns whether the RuntimeMode is a recognized mode,
// and a list of validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&UnknownRuntimeError{Mode: m}}
	}
}

// GetTask finds a task by name. Returns nil if the task is not defined.
func (cf *Chorefile) GetTask(name string) *Task {
	if name == "" {
		return nil
	}
	task, ok := cf.Tasks[name]
	if !ok {
		return nil
	}
	return &task
}

// TaskNames returns all defined task names in sorted order.
func (cf *Chorefile) TaskNames() []string {
	names := make([]string, 0, len(cf.Tasks))
	for name := range cf.Tasks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsBuiltin reports whether this chorefile is the embedded default set
// rather than one loaded from disk.
func (cf *Chorefile) IsBuiltin() bool {
	return cf.FilePath == ""
}

// BaseDir returns the directory against which relative paths in this
// chorefile resolve. For the builtin chorefile it returns "." so tasks
// operate on the invoking directory.
func (cf *Chorefile) BaseDir() string {
	if cf.FilePath == "" {
		return "."
	}
	return filepath.Dir(cf.FilePath)
}

// EffectiveWorkDir resolves the working directory for a task.
// Precedence (highest to lowest): CLI override, task-level workdir,
// file-level workdir, chorefile directory.
//
// Workdir paths in CUE use forward slashes; relative paths resolve against
// the chorefile location.
func (cf *Chorefile) EffectiveWorkDir(task *Task, cliOverride string) string {
	baseDir := cf.BaseDir()

	resolve := func(workdir string) string {
		nativePath := filepath.FromSlash(workdir)
		if filepath.IsAbs(nativePath) {
			return nativePath
		}
		return filepath.Join(baseDir, nativePath)
	}

	if cliOverride != "" {
		return resolve(cliOverride)
	}
	if task != nil && task.WorkDir != "" {
		return resolve(task.WorkDir)
	}
	if cf.WorkDir != "" {
		return resolve(cf.WorkDir)
	}
	return baseDir
}

// IsAggregate reports whether the task only groups dependencies and has no
// script of its own.
func (t *Task) IsAggregate() bool {
	return t.Script == ""
}
