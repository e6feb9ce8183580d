// SPDX-License-Identifier: MPL-2.0

package manager

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pzmm/pzmm/internal/catalog"
	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/platform"
	"github.com/pzmm/pzmm/internal/registry"
)

// Create registers a new mod at basePath/name and runs the create_mod script
// with (name, basePath). The record is persisted before the script runs and
// stays when the script fails.
func (m *Manager) Create(ctx context.Context, name, basePath string) error {
	const op = "create mod"

	if m.reg.Has(name) {
		m.logger.Warn("Mod already exists", "mod", name)
		return existsError(op, name)
	}
	if !platform.IsPortableFolderName(name) {
		return issue.NewErrorContext().
			WithOperation(op).
			WithResource(name).
			WithSuggestion(`Avoid path separators, the characters :*?"<>| and reserved names like CON`).
			Wrap(ErrInvalidModName).
			BuildError()
	}
	if !m.pathExists(basePath) {
		m.logger.Error("Base path does not exist", "path", basePath)
		return pathError(op, basePath, ErrPathNotFound, issue.PathNotFoundId)
	}

	script, err := m.script(op, platform.OpCreateMod)
	if err != nil {
		return err
	}

	modPath, err := filepath.Abs(filepath.Join(basePath, name))
	if err != nil {
		return issue.WrapWithContext(err, op, basePath)
	}
	if err := m.mutate(op, name, func(reg *registry.Registry) {
		reg.Put(name, registry.ModRecord{ModPath: modPath})
	}); err != nil {
		return err
	}
	m.logger.Info("Registered new mod", "mod", name, "path", modPath)

	if _, err := m.run(ctx, op, name, script, []string{name, basePath}, false); err != nil {
		return err
	}
	m.logger.Info("Successfully created mod", "mod", name)
	return nil
}

// Scaffold runs the create_mod script again with the folders of the selected
// mod types appended to (name, basePath). Folders keep selection order and
// duplicates are passed through. No script runs when types is empty.
func (m *Manager) Scaffold(ctx context.Context, name, basePath string, types []catalog.ModType) error {
	const op = "create mod structure"

	if len(types) == 0 {
		return nil
	}
	if _, err := m.lookup(op, name); err != nil {
		return err
	}
	for _, t := range types {
		if err := t.Validate(); err != nil {
			return issue.NewErrorContext().
				WithOperation(op).
				WithResource(name).
				WithSuggestion("Run 'modtypes' to see the available mod types").
				Wrap(err).
				BuildError()
		}
	}

	script, err := m.script(op, platform.OpCreateMod)
	if err != nil {
		return err
	}

	folders := catalog.FlattenFolders(types)
	args := append([]string{name, basePath}, folders...)
	if _, err := m.run(ctx, op, name, script, args, false); err != nil {
		return err
	}
	m.logger.Info("Successfully created mod structure", "mod", name, "folders", len(folders))
	return nil
}

// Register adds an existing mod folder to the registry without running a script.
func (m *Manager) Register(name, path string) error {
	const op = "register mod"

	if m.reg.Has(name) {
		m.logger.Warn("Mod already exists in registry", "mod", name)
		return existsError(op, name)
	}
	if strings.TrimSpace(name) == "" {
		return issue.NewErrorContext().
			WithOperation(op).
			WithSuggestion("Enter a non-empty mod name").
			Wrap(ErrInvalidModName).
			BuildError()
	}

	fullPath, err := filepath.Abs(path)
	if err != nil {
		return issue.WrapWithContext(err, op, path)
	}
	if !m.pathExists(fullPath) {
		m.logger.Error("Path does not exist", "path", fullPath)
		return pathError(op, fullPath, ErrPathNotFound, issue.PathNotFoundId)
	}

	if err := m.mutate(op, name, func(reg *registry.Registry) {
		reg.Put(name, registry.ModRecord{ModPath: fullPath})
	}); err != nil {
		return err
	}
	m.logger.Info("Successfully registered mod", "mod", name, "path", fullPath)
	return nil
}

// Install runs the install_mod script with (name, mod_path).
func (m *Manager) Install(ctx context.Context, name string) error {
	const op = "install mod"

	rec, err := m.lookup(op, name)
	if err != nil {
		return err
	}
	if !m.isDir(rec.ModPath) {
		m.logger.Error("Invalid mod path", "mod", name, "path", rec.ModPath)
		return pathError(op, rec.ModPath, ErrInvalidModPath, issue.InvalidModPathId)
	}

	script, err := m.script(op, platform.OpInstallMod)
	if err != nil {
		return err
	}
	if _, err := m.run(ctx, op, name, script, []string{name, rec.ModPath}, false); err != nil {
		return err
	}
	m.logger.Info("Successfully installed mod", "mod", name)
	return nil
}

// Delete removes name from the registry. An unknown name leaves the registry
// file untouched.
func (m *Manager) Delete(name string) error {
	const op = "delete mod"

	if _, err := m.lookup(op, name); err != nil {
		return err
	}
	if err := m.mutate(op, name, func(reg *registry.Registry) {
		reg.Delete(name)
	}); err != nil {
		return err
	}
	m.logger.Info("Removed mod", "mod", name)
	return nil
}

// List returns every registered mod in insertion order.
func (m *Manager) List() []registry.Mod {
	return m.reg.Mods()
}

// ValidatePaths returns the names of mods whose recorded path no longer exists.
func (m *Manager) ValidatePaths() []string {
	invalid := []string{}
	for _, mod := range m.reg.Mods() {
		if !m.pathExists(mod.Record.ModPath) {
			invalid = append(invalid, mod.Name)
		}
	}
	if len(invalid) > 0 {
		m.logger.Warn("Mods with invalid paths", "mods", strings.Join(invalid, ", "))
	}
	return invalid
}

// Flush truncates the registry file and empties the in-memory registry.
func (m *Manager) Flush() error {
	if err := m.store.Flush(); err != nil {
		return issue.NewErrorContext().
			WithOperation("flush registry").
			WithResource(m.store.Path()).
			WithIssue(issue.RegistrySaveFailedId).
			Wrap(err).
			BuildError()
	}
	m.reg = registry.New()
	return nil
}

func existsError(op, name string) error {
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(name).
		WithSuggestion("Choose a different name or 'delete' the existing entry first").
		WithIssue(issue.ModAlreadyRegisteredId).
		Wrap(ErrModExists).
		BuildError()
}
