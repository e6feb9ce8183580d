// SPDX-License-Identifier: MPL-2.0

// Package runtime runs the helper scripts that do the actual mod authoring work.
//
// Two executors implement the Executor interface:
//   - native: starts the script as a child process (through bash on Unix-like
//     hosts, directly on Windows)
//   - virtual: interprets a POSIX script with the embedded mvdan/sh interpreter,
//     for hosts without bash; with WithBuiltinUtils, file utilities such as
//     mkdir and cp run against the executor's filesystem
//
// Arguments are always passed as a literal vector. A non-zero exit status is a
// normal Result, not an error; errors are reserved for failures to start or
// interpret the script.
package runtime
