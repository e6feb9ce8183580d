// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

type (
	// Command is a built-in utility.
	Command interface {
		// Name returns the command name (e.g., "cp", "mkdir").
		Name() string

		// Run executes the command. args[0] is the command name and the
		// HandlerContext is read from ctx.
		Run(ctx context.Context, args []string) error
	}

	// HandlerContext is the execution environment of a single utility call.
	HandlerContext struct {
		// Fs is the filesystem the utility operates on.
		Fs afero.Fs
		// Stdin is the input stream for the command.
		Stdin io.Reader
		// Stdout is the output stream for the command.
		Stdout io.Writer
		// Stderr is the error output stream for the command.
		Stderr io.Writer
		// Dir is the current working directory of the script.
		Dir string
	}

	handlerContextKey struct{}
)

// WithHandlerContext stores hc in ctx.
func WithHandlerContext(ctx context.Context, hc *HandlerContext) context.Context {
	return context.WithValue(ctx, handlerContextKey{}, hc)
}

// GetHandlerContext returns the HandlerContext stored in ctx. Without one it
// returns a context on the OS filesystem with discarded output.
func GetHandlerContext(ctx context.Context) *HandlerContext {
	if hc, ok := ctx.Value(handlerContextKey{}).(*HandlerContext); ok {
		return hc
	}
	return &HandlerContext{Fs: afero.NewOsFs(), Stdout: io.Discard, Stderr: io.Discard}
}

// Resolve makes p absolute against the working directory.
func (hc *HandlerContext) Resolve(p string) string {
	if filepath.IsAbs(p) || hc.Dir == "" {
		return p
	}
	return filepath.Join(hc.Dir, p)
}

// wrapError prefixes err with the command name. Returns nil if err is nil.
func wrapError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", cmdName, err)
}

// newFlagSet returns a quiet flag set; parse errors are reported by the caller.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlags parses args[1:] into fs and returns the operands.
func parseFlags(fs *pflag.FlagSet, args []string) ([]string, error) {
	if len(args) < 2 {
		return nil, nil
	}
	if err := fs.Parse(args[1:]); err != nil {
		return nil, wrapError(fs.Name(), err)
	}
	return fs.Args(), nil
}
