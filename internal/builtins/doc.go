// SPDX-License-Identifier: MPL-2.0

// Package builtins provides commands that the virtual shell runtime resolves
// before external binaries. Builtins run in-process, so tasks using them work
// without any system utilities installed; the clean chores rely on this to
// sweep artifacts on any platform.
package builtins
