// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that handle errors appropriately,
// reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include filesystem setup on afero filesystems (MustMkdirAll,
// MustWriteFile, MustReadFile) and RecordingExecutor, a script executor that
// records invocations instead of starting processes.
package testutil
