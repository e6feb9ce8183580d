// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/pzmm/pzmm/internal/platform"
)

// DefaultShell interprets Unix scripts when no shell is configured.
const DefaultShell = "bash"

// NativeExecutor runs scripts as child processes.
type NativeExecutor struct {
	kind    platform.Kind
	shell   string
	streams IO
}

// NewNativeExecutor creates a native executor. On Unix-like hosts shell is the
// process and the script its first argument; on Windows the script is started
// directly and shell is ignored.
func NewNativeExecutor(kind platform.Kind, shell string, streams IO) *NativeExecutor {
	if shell == "" {
		shell = DefaultShell
	}
	return &NativeExecutor{kind: kind, shell: shell, streams: streams.withDefaults()}
}

// Name returns the executor identifier.
func (e *NativeExecutor) Name() string { return NameNative }

// Available reports whether the interpreter needed for this platform is on PATH.
func (e *NativeExecutor) Available() bool {
	if e.kind == platform.KindWindows {
		return true
	}
	_, err := exec.LookPath(e.shell)
	return err == nil
}

// Execute runs the script.
func (e *NativeExecutor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	name, args := e.argv(inv)
	cmd := exec.CommandContext(ctx, name, args...)
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}

	var stdout, stderr bytes.Buffer
	if inv.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdin = e.streams.Stdin
		cmd.Stdout = e.streams.Stdout
		cmd.Stderr = e.streams.Stderr
	}

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = ExitCode(exitErr.ExitCode())
			return result, nil
		}
		result.ExitCode = 1
		return result, fmt.Errorf("failed to execute %s: %w", inv.Script, err)
	}
	return result, nil
}

// argv returns the program and arguments for inv.
func (e *NativeExecutor) argv(inv Invocation) (string, []string) {
	if e.kind == platform.KindWindows {
		return inv.Script, append([]string(nil), inv.Args...)
	}
	args := make([]string, 0, len(inv.Args)+1)
	args = append(args, inv.Script)
	args = append(args, inv.Args...)
	return e.shell, args
}
