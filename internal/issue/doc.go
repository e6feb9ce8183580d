// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the mod or path involved and
// remediation hints. Errors may point at an entry of the issue catalogue, whose
// Markdown guidance is rendered with glamour when the CLI runs in verbose mode.
package issue
