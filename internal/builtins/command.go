// SPDX-License-Identifier: MPL-2.0

package builtins

import "context"

type (
	// Command defines the interface for builtin implementations.
	Command interface {
		// Name returns the command name (e.g., "sweep").
		Name() string

		// Run executes the command with the given context and arguments.
		// The context carries the HandlerContext with stdio and workdir.
		// args[0] is the command name, args[1:] are the actual arguments.
		// Returns nil on success, or an error prefixed with "[builtin] <cmd>:".
		Run(ctx context.Context, args []string) error

		// SupportedFlags returns the flags this command supports, for
		// documentation and introspection.
		SupportedFlags() []FlagInfo
	}

	// FlagInfo describes a supported flag for a builtin command.
	FlagInfo struct {
		// Name is the flag name without dashes (e.g., "n").
		Name string
		// Description explains what the flag does.
		Description string
	}
)
