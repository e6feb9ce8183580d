// SPDX-License-Identifier: MPL-2.0

// Package manager implements the mod operations: registry bookkeeping plus
// dispatch of the helper scripts that scaffold mods and author content.
//
// Operations take fully structured input and never touch the console. Every
// caller-facing failure is an *issue.ActionableError wrapping one of the
// sentinel errors below, so callers can branch with errors.Is and print the
// error with its suggestions.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/platform"
	"github.com/pzmm/pzmm/internal/registry"
	"github.com/pzmm/pzmm/internal/runtime"
)

var (
	// ErrModNotFound is returned when a mod name is not in the registry.
	ErrModNotFound = errors.New("mod not registered")
	// ErrModExists is returned when registering a name that is already taken.
	ErrModExists = errors.New("mod already registered")
	// ErrInvalidModName is returned for names that cannot be used as a folder name.
	ErrInvalidModName = errors.New("invalid mod name")
	// ErrPathNotFound is returned when a user-supplied path does not exist.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrInvalidModPath is returned when a registered mod's folder is missing.
	ErrInvalidModPath = errors.New("invalid mod path")
	// ErrNoIngredients is returned for a recipe without ingredients.
	ErrNoIngredients = errors.New("at least one ingredient is required")
	// ErrInvalidIngredient is returned for an ingredient without a name.
	ErrInvalidIngredient = errors.New("invalid ingredient")
	// ErrScriptFailed is returned when a helper script exits non-zero or cannot start.
	ErrScriptFailed = errors.New("script failed")
)

type (
	// ScriptResolver maps an operation to the script that implements it.
	ScriptResolver interface {
		ScriptPath(op platform.Operation) (string, error)
	}

	// Options configures New.
	Options struct {
		// Fs is used for path existence checks. Defaults to the OS filesystem.
		Fs afero.Fs
		// Store persists the registry.
		Store *registry.Store
		// Scripts resolves helper scripts.
		Scripts ScriptResolver
		// Executor runs helper scripts.
		Executor runtime.Executor
		// Logger receives operation logs. Nil discards them.
		Logger *log.Logger
		// Shell prefixes logged command lines; empty when scripts run directly.
		Shell string
	}

	// Manager performs mod operations against one registry.
	Manager struct {
		fs      afero.Fs
		store   *registry.Store
		reg     *registry.Registry
		scripts ScriptResolver
		exec    runtime.Executor
		logger  *log.Logger
		shell   string
	}
)

// New creates a manager and loads the registry from the store.
func New(opts Options) (*Manager, error) {
	if opts.Store == nil || opts.Scripts == nil || opts.Executor == nil {
		return nil, errors.New("manager: store, scripts and executor are required")
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	reg, err := opts.Store.Load()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load registry").
			WithResource(opts.Store.Path()).
			WithSuggestion("Check that the registry directory is writable").
			Wrap(err).
			BuildError()
	}

	return &Manager{
		fs:      fs,
		store:   opts.Store,
		reg:     reg,
		scripts: opts.Scripts,
		exec:    opts.Executor,
		logger:  logger,
		shell:   opts.Shell,
	}, nil
}

// Has reports whether name is registered.
func (m *Manager) Has(name string) bool { return m.reg.Has(name) }

// Get returns the record for name.
func (m *Manager) Get(name string) (registry.ModRecord, bool) { return m.reg.Get(name) }

// Require returns the not-registered error for op when name is unknown.
func (m *Manager) Require(op, name string) error {
	_, err := m.lookup(op, name)
	return err
}

// RegistryPath returns the location of the registry file.
func (m *Manager) RegistryPath() string { return m.store.Path() }

// lookup returns the record for name or an ErrModNotFound error for op.
func (m *Manager) lookup(op, name string) (registry.ModRecord, error) {
	rec, ok := m.reg.Get(name)
	if !ok {
		m.logger.Error("Mod not found in registry", "mod", name)
		return registry.ModRecord{}, issue.NewErrorContext().
			WithOperation(op).
			WithResource(name).
			WithSuggestion("Run 'list' to see registered mods").
			WithSuggestion("Use 'register' to add an existing mod folder").
			WithIssue(issue.ModNotRegisteredId).
			Wrap(ErrModNotFound).
			BuildError()
	}
	return rec, nil
}

// mutate applies fn to the registry and persists it. The in-memory registry
// is restored when saving fails.
func (m *Manager) mutate(op, resource string, fn func(reg *registry.Registry)) error {
	prev := m.reg.Clone()
	fn(m.reg)
	if err := m.store.Save(m.reg); err != nil {
		m.reg = prev
		return issue.NewErrorContext().
			WithOperation(op).
			WithResource(resource).
			WithSuggestion(fmt.Sprintf("Check that %s is writable", m.store.Path())).
			WithIssue(issue.RegistrySaveFailedId).
			Wrap(err).
			BuildError()
	}
	return nil
}

// script resolves the script for sop.
func (m *Manager) script(op string, sop platform.Operation) (string, error) {
	path, err := m.scripts.ScriptPath(sop)
	if err != nil {
		m.logger.Error("Script resolution failed", "operation", sop, "err", err)
		id := issue.ScriptNotFoundId
		if errors.Is(err, platform.ErrScriptUnavailable) {
			id = issue.ScriptUnavailableId
		}
		return "", issue.NewErrorContext().
			WithOperation(op).
			WithResource(string(sop)).
			WithSuggestion("Make sure the core/ script folder is next to the registry").
			WithSuggestion("Point 'scripts' in config.cue at a custom script").
			WithIssue(id).
			Wrap(err).
			BuildError()
	}
	return path, nil
}

// run executes script and converts start failures and non-zero exits into
// ErrScriptFailed errors for op.
func (m *Manager) run(ctx context.Context, op, resource, script string, args []string, capture bool) (runtime.Result, error) {
	inv := runtime.Invocation{Script: script, Args: args, Capture: capture}
	m.logger.Info("Running script", "cmd", runtime.CommandLine(m.shell, inv))

	res, err := m.exec.Execute(ctx, inv)
	if err == nil {
		err = res.Err(filepath.Base(script))
	}
	if err != nil {
		m.logger.Error("Script failed", "script", script, "exit", res.ExitCode, "err", err)
		if res.Stderr != "" {
			m.logger.Error("Script stderr", "script", script, "stderr", res.Stderr)
		}
		return res, issue.NewErrorContext().
			WithOperation(op).
			WithResource(resource).
			WithSuggestion("Check the log file for details").
			WithIssue(issue.ScriptExecutionFailedId).
			Wrap(fmt.Errorf("%w: %w", ErrScriptFailed, err)).
			BuildError()
	}
	return res, nil
}

func (m *Manager) pathExists(path string) bool {
	ok, err := afero.Exists(m.fs, path)
	return err == nil && ok
}

func (m *Manager) isDir(path string) bool {
	if path == "" {
		return false
	}
	ok, err := afero.IsDir(m.fs, path)
	return err == nil && ok
}

func pathError(op, path string, sentinel error, id issue.Id) error {
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(path).
		WithSuggestion("Check the path for typos").
		WithSuggestion("Run 'validate' to find mods whose folders moved").
		WithIssue(id).
		Wrap(sentinel).
		BuildError()
}
