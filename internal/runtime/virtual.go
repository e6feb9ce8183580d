// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/pzmm/pzmm/internal/coreutils"
)

type (
	// VirtualExecutor interprets POSIX scripts with the embedded mvdan/sh interpreter.
	// Redirections are served from the executor's filesystem.
	VirtualExecutor struct {
		fs      afero.Fs
		streams IO
		environ func() []string
		utils   *coreutils.Registry
	}

	// VirtualOption configures a VirtualExecutor.
	VirtualOption func(*VirtualExecutor)
)

// WithBuiltinUtils makes scripts run mkdir, cp and the other registered
// utilities against the executor's filesystem instead of host binaries.
func WithBuiltinUtils(reg *coreutils.Registry) VirtualOption {
	return func(e *VirtualExecutor) { e.utils = reg }
}

// NewVirtualExecutor creates a virtual executor reading scripts from fs.
func NewVirtualExecutor(fs afero.Fs, streams IO, opts ...VirtualOption) *VirtualExecutor {
	e := &VirtualExecutor{fs: fs, streams: streams.withDefaults(), environ: os.Environ}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuiltinUtils reports whether built-in utilities are enabled.
func (e *VirtualExecutor) BuiltinUtils() bool { return e.utils != nil }

// Name returns the executor identifier.
func (e *VirtualExecutor) Name() string { return NameVirtual }

// Execute interprets the script with inv.Args as positional parameters.
func (e *VirtualExecutor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	prog, err := e.parse(inv.Script)
	if err != nil {
		return Result{ExitCode: 1}, err
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(e.environ()...)),
		interp.OpenHandler(coreutils.OpenHandler(e.fs)),
	}
	if e.utils != nil {
		opts = append(opts, interp.ExecHandlers(e.utils.ExecHandler(e.fs)))
	}
	if inv.Dir != "" {
		opts = append(opts, interp.Dir(inv.Dir))
	}
	if inv.Capture {
		opts = append(opts, interp.StdIO(nil, &stdout, &stderr))
	} else {
		opts = append(opts, interp.StdIO(e.streams.Stdin, e.streams.Stdout, e.streams.Stderr))
	}
	// "--" keeps arguments such as "-v" from being read as shell options.
	params := append([]string{"--"}, inv.Args...)
	opts = append(opts, interp.Params(params...))

	runner, err := interp.New(opts...)
	if err != nil {
		return Result{ExitCode: 1}, fmt.Errorf("failed to create interpreter: %w", err)
	}

	err = runner.Run(ctx, prog)
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			result.ExitCode = ExitCode(exitStatus)
			return result, nil
		}
		result.ExitCode = 1
		return result, fmt.Errorf("script execution failed: %w", err)
	}
	return result, nil
}

func (e *VirtualExecutor) parse(script string) (*syntax.File, error) {
	data, err := afero.ReadFile(e.fs, script)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", script, err)
	}
	prog, err := syntax.NewParser().Parse(bytes.NewReader(data), script)
	if err != nil {
		return nil, fmt.Errorf("script syntax error: %w", err)
	}
	return prog, nil
}
