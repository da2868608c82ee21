// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for parsing CUE documents against
// embedded schemas. Both the chorefile format and the global config use the
// same 3-step flow: compile the schema, compile the user data, then unify,
// validate, and decode into a Go value. Errors are formatted with JSON-path
// prefixes so users can locate the offending field.
package cueutil
