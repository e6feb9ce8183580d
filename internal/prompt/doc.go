// SPDX-License-Identifier: MPL-2.0

// Package prompt collects user answers for the mod manager.
//
// Prompter reads one answer per line from any io.Reader, which is what the
// interactive shell and the CLI tests use. The huh based pickers in choose.go
// are only used when stdin is a terminal.
package prompt
