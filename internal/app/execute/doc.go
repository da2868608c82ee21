// SPDX-License-Identifier: MPL-2.0

// Package execute orchestrates task runs: it resolves the dependency closure
// of the requested task, orders it topologically, and executes each step
// through the runtime registry, stopping at the first failure.
package execute
