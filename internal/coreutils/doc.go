// SPDX-License-Identifier: MPL-2.0

// Package coreutils provides built-in file utilities for the virtual executor.
//
// Mod scaffolding scripts lean on a handful of POSIX utilities (mkdir, touch,
// cp and friends). When the embedded interpreter runs a script, the exec
// handler returned by Registry.ExecHandler intercepts those names and runs
// them against an afero.Fs instead of spawning host binaries. Names that are
// not registered fall through to the next handler.
//
// # Supported Commands
//
//   - basename, dirname: path manipulation
//   - cat: concatenate files to standard output
//   - cp: copy files, -r for directories
//   - mkdir: create directories, -p for parents
//   - mv: rename files and directories
//   - rm: remove files, -r for directories, -f to ignore missing paths
//   - touch: create empty files
//
// # Error Format
//
// A failing utility writes "name: message" to the script's standard error and
// sets exit status 1, so "mkdir x || true" behaves as it would with coreutils.
//
// Short flags may be combined ("-rf").
package coreutils
