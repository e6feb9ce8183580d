// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"

	"github.com/spf13/afero"
)

// Logical script operations.
const (
	OpInstallMod   Operation = "install_mod"
	OpCreateMod    Operation = "create_mod"
	OpCreateItem   Operation = "create_item"
	OpCreateRecipe Operation = "create_recipe"
	OpCreateModel  Operation = "create_model"
	OpCreateSound  Operation = "create_sound"
	OpHelp         Operation = "mod_manager_help"
)

var (
	// ErrScriptUnavailable is returned when an operation has no script for the platform.
	ErrScriptUnavailable = errors.New("script not available for platform")
	// ErrScriptNotFound is returned when the resolved script does not exist on disk.
	ErrScriptNotFound = errors.New("script not found")
)

type (
	// Operation names a helper script independently of the platform.
	Operation string

	// ScriptTable maps each platform family to its operation → relative path table.
	ScriptTable map[Kind]map[Operation]string

	// ScriptUnavailableError is returned when the table has no entry for an operation.
	ScriptUnavailableError struct {
		Operation Operation
		Kind      Kind
	}

	// ScriptNotFoundError is returned when the resolved script path does not exist.
	ScriptNotFoundError struct {
		Operation Operation
		Path      string
	}

	// Resolver turns operations into absolute script paths for one platform family.
	Resolver struct {
		fs      afero.Fs
		kind    Kind
		baseDir string
		table   ScriptTable
	}
)

// Operations lists every known operation.
func Operations() []Operation {
	return []Operation{
		OpInstallMod, OpCreateMod, OpCreateItem, OpCreateRecipe,
		OpCreateModel, OpCreateSound, OpHelp,
	}
}

// DefaultScripts returns the script table shipped with pzmm.
func DefaultScripts() ScriptTable {
	win := filepath.Join("core", "Windows")
	nix := filepath.Join("core", "Linux")
	return ScriptTable{
		KindWindows: {
			OpInstallMod:   filepath.Join(win, "mod", "install_mod.bat"),
			OpCreateMod:    filepath.Join(win, "mod", "create_mod.bat"),
			OpCreateItem:   filepath.Join(win, "create_item.bat"),
			OpHelp:         filepath.Join(win, "mod_manager_help.bat"),
			OpCreateRecipe: filepath.Join(win, "create_recipe.bat"),
			OpCreateModel:  filepath.Join(win, "create_model.bat"),
			OpCreateSound:  filepath.Join(win, "create_sound.bat"),
		},
		KindUnix: {
			OpInstallMod:   filepath.Join(nix, "mod", "install_mod.sh"),
			OpCreateMod:    filepath.Join(nix, "mod", "create_mod.sh"),
			OpCreateItem:   filepath.Join(nix, "create_item.sh"),
			OpHelp:         filepath.Join(nix, "mod_manager_help.sh"),
			OpCreateRecipe: filepath.Join(nix, "create_recipe.sh"),
			OpCreateModel:  filepath.Join(nix, "create_model.sh"),
			OpCreateSound:  filepath.Join(nix, "create_sound.sh"),
		},
	}
}

// WithOverrides returns a copy of the table where the given entries replace
// those of kind. An empty path removes the entry.
func (t ScriptTable) WithOverrides(kind Kind, overrides map[Operation]string) ScriptTable {
	out := make(ScriptTable, len(t))
	for k, ops := range t {
		out[k] = maps.Clone(ops)
	}
	if len(overrides) == 0 {
		return out
	}
	if out[kind] == nil {
		out[kind] = make(map[Operation]string)
	}
	for op, path := range overrides {
		if path == "" {
			delete(out[kind], op)
			continue
		}
		out[kind][op] = path
	}
	return out
}

// NewResolver creates a resolver. Relative table entries are resolved against
// baseDir, or against the working directory when baseDir is empty.
func NewResolver(fs afero.Fs, kind Kind, baseDir string, table ScriptTable) *Resolver {
	return &Resolver{fs: fs, kind: kind, baseDir: baseDir, table: table}
}

// Kind returns the platform family the resolver serves.
func (r *Resolver) Kind() Kind { return r.kind }

// ScriptPath returns the absolute path of the script for op.
func (r *Resolver) ScriptPath(op Operation) (string, error) {
	rel, ok := r.table[r.kind][op]
	if !ok {
		return "", &ScriptUnavailableError{Operation: op, Kind: r.kind}
	}

	path := rel
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path %s: %w", path, err)
	}

	exists, err := afero.Exists(r.fs, abs)
	if err != nil {
		return "", fmt.Errorf("stat script %s: %w", abs, err)
	}
	if !exists {
		return "", &ScriptNotFoundError{Operation: op, Path: abs}
	}
	return abs, nil
}

// Error implements the error interface.
func (e *ScriptUnavailableError) Error() string {
	return fmt.Sprintf("script '%s' not available for platform %s", e.Operation, e.Kind)
}

// Unwrap returns ErrScriptUnavailable for errors.Is() compatibility.
func (e *ScriptUnavailableError) Unwrap() error { return ErrScriptUnavailable }

// Error implements the error interface.
func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf("script not found: %s", e.Path)
}

// Unwrap returns ErrScriptNotFound for errors.Is() compatibility.
func (e *ScriptNotFoundError) Unwrap() error { return ErrScriptNotFound }
