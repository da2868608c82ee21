// SPDX-License-Identifier: MPL-2.0

// Package chorefile defines the chorefile format: a CUE document declaring
// named tasks (script, dependencies, environment, watch patterns) plus
// file-level variables and environment. Documents are validated against an
// embedded CUE schema and then checked for constraints CUE cannot express,
// such as dependency references resolving to defined tasks.
//
// A builtin chorefile with the classic Python project chores (clean-pyc,
// clean-build, lint, test, install) is embedded and used when a project has
// no chorefile of its own.
package chorefile
