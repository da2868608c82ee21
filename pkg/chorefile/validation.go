// SPDX-License-Identifier: MPL-2.0

package chorefile

import (
	"fmt"
	"slices"
)

type (
	// UnknownRuntimeError is returned when a RuntimeMode is not a recognized mode.
	UnknownRuntimeError struct {
		Mode RuntimeMode
	}

	// UnknownDepError is returned when a task's deps entry names a task that
	// is not defined in the same chorefile.
	UnknownDepError struct {
		Task string
		Dep  string
	}
)

// Error implements the error interface.
func (e *UnknownRuntimeError) Error() string {
	return fmt.Sprintf("unknown runtime %q (expected: native, virtual)", string(e.Mode))
}

// Error implements the error interface.
func (e *UnknownDepError) Error() string {
	return fmt.Sprintf("task %q depends on undefined task %q", e.Task, e.Dep)
}

// validate checks constraints the CUE schema cannot express:
//   - every deps entry must name a task defined in this chorefile
//   - a task must not depend on itself
//   - a task without a script must have deps (pure aggregates only)
//   - explicit runtime values must be recognized (guards programmatic
//     construction; CUE already enforces this for parsed files)
//
// Cycles between tasks are detected at execution time by the dependency
// graph, where the full closure is known.
func (cf *Chorefile) validate() error {
	for _, name := range cf.TaskNames() {
		task := cf.Tasks[name]

		if task.Script == "" && len(task.Deps) == 0 {
			return fmt.Errorf("task %q has neither a script nor deps", name)
		}

		if task.Runtime != "" {
			if isValid, errs := task.Runtime.IsValid(); !isValid {
				return fmt.Errorf("task %q: %w", name, errs[0])
			}
		}

		if slices.Contains(task.Deps, name) {
			return fmt.Errorf("task %q depends on itself", name)
		}

		for _, dep := range task.Deps {
			if _, ok := cf.Tasks[dep]; !ok {
				return &UnknownDepError{Task: name, Dep: dep}
			}
		}
	}

	return nil
}
