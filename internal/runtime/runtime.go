// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Executor names.
const (
	NameNative  = "native"
	NameVirtual = "virtual"
)

var (
	// ErrScriptExit is the sentinel error wrapped by ExitError.
	ErrScriptExit = errors.New("script exited with non-zero status")
	// ErrUnknownExecutor is returned by New for an unrecognized executor name.
	ErrUnknownExecutor = errors.New("unknown executor")
)

type (
	// Executor runs a helper script with positional arguments.
	Executor interface {
		// Name returns the executor identifier used in configuration.
		Name() string
		// Execute runs the invocation. The error is reserved for failures to
		// start the script; a non-zero exit is reported through Result.ExitCode.
		Execute(ctx context.Context, inv Invocation) (Result, error)
	}

	// Invocation describes one script run.
	Invocation struct {
		// Script is the absolute path of the script to run.
		Script string
		// Args are passed verbatim as $1..$n.
		Args []string
		// Capture collects stdout and stderr into the Result instead of
		// streaming them to the terminal.
		Capture bool
		// Dir is the working directory. Empty means the current directory.
		Dir string
	}

	// Result holds the outcome of a finished script.
	Result struct {
		ExitCode ExitCode
		Stdout   string
		Stderr   string
	}

	// ExitCode represents a process exit status code.
	// The zero value (0) means success.
	ExitCode int

	// IO holds the streams used when output is not captured.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExitError reports a script that ran but exited with a non-zero status.
	ExitError struct {
		Script string
		Code   ExitCode
		Stderr string
	}
)

// StdIO returns the process standard streams.
func StdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Success reports whether the script exited with status 0.
func (r Result) Success() bool { return r.ExitCode.IsSuccess() }

// Err returns an *ExitError for a non-zero exit, or nil.
func (r Result) Err(script string) error {
	if r.Success() {
		return nil
	}
	return &ExitError{Script: script, Code: r.ExitCode, Stderr: r.Stderr}
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Script, e.Code)
}

// Unwrap returns ErrScriptExit for errors.Is() compatibility.
func (e *ExitError) Unwrap() error { return ErrScriptExit }

func (s IO) withDefaults() IO {
	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}
	return s
}
