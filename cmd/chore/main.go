// SPDX-License-Identifier: MPL-2.0

// Command chore is a task runner for project chores. Tasks are defined in
// chorefile.cue; without one, the builtin Python project chores apply.
package main

func main() {
	Execute()
}
