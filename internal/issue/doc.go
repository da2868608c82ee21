// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error types. CLI boundaries wrap
// failures in an ActionableError carrying the operation, the resource
// involved, and fix suggestions; verbose mode expands the cause chain.
package issue
