// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/interp"
)

const devNull = "/dev/null"

// ErrCommandNotFound is returned by Registry.Run for unregistered names.
var ErrCommandNotFound = errors.New("command not found")

// Registry maps command names to utilities. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Default returns a registry holding every built-in utility.
func Default() *Registry {
	r := NewRegistry()
	for _, cmd := range []Command{
		newBasenameCommand(),
		newCatCommand(),
		newCpCommand(),
		newDirnameCommand(),
		newMkdirCommand(),
		newMvCommand(),
		newRmCommand(),
		newTouchCommand(),
	} {
		r.Register(cmd)
	}
	return r
}

// Register adds a command. It panics on an empty or duplicate name.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if name == "" {
		panic("coreutils: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("coreutils: command %q already registered", name))
	}
	r.commands[name] = cmd
}

// Lookup retrieves a command by name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes a command by name. args[0] should be the command name.
func (r *Registry) Run(ctx context.Context, name string, args []string) error {
	cmd, ok := r.Lookup(name)
	if !ok {
		return wrapError(name, ErrCommandNotFound)
	}
	return cmd.Run(ctx, args)
}

// ExecHandler returns interpreter middleware running registered utilities
// against fs. Unregistered names go to next.
func (r *Registry) ExecHandler(fs afero.Fs) func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return next(ctx, args)
			}
			cmd, ok := r.Lookup(args[0])
			if !ok {
				return next(ctx, args)
			}

			shell := interp.HandlerCtx(ctx)
			hc := &HandlerContext{
				Fs:     fs,
				Stdin:  shell.Stdin,
				Stdout: shell.Stdout,
				Stderr: shell.Stderr,
				Dir:    shell.Dir,
			}
			if err := cmd.Run(WithHandlerContext(ctx, hc), args); err != nil {
				fmt.Fprintln(hc.Stderr, err)
				return interp.ExitStatus(1)
			}
			return nil
		}
	}
}

// OpenHandler returns an interpreter open handler serving redirections from
// fs. /dev/null is left to the default handler.
func OpenHandler(fs afero.Fs) interp.OpenHandlerFunc {
	fallback := interp.DefaultOpenHandler()
	return func(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
		if path == devNull {
			return fallback(ctx, path, flag, perm)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(interp.HandlerCtx(ctx).Dir, path)
		}
		return fs.OpenFile(path, flag, perm)
	}
}
