// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// indent matches the four-space layout existing registry files use.
const indent = "    "

var (
	// ErrSave is wrapped by every error returned from Save.
	ErrSave = errors.New("failed to save registry")
	// ErrFlush is wrapped by every error returned from Flush.
	ErrFlush = errors.New("failed to flush registry")
)

// Store persists a Registry as a JSON file.
type Store struct {
	fs     afero.Fs
	path   string
	logger *log.Logger
}

// NewStore creates a store for the registry file at path. A nil logger
// discards log output.
func NewStore(fs afero.Fs, path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{fs: fs, path: path, logger: logger}
}

// Path returns the registry file location.
func (s *Store) Path() string { return s.path }

// Load reads the registry file. A missing file is created (with parent
// directories) holding an empty object. A file that does not hold a JSON
// object, including an empty one, is overwritten with an empty object and an
// empty registry is returned. Only I/O failures are returned as errors.
func (s *Store) Load() (*Registry, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat registry %s: %w", s.path, err)
	}

	if !exists {
		s.logger.Info("Registry file not found. Creating new one.", "path", s.path)
		if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create registry directory: %w", err)
		}
		if err := afero.WriteFile(s.fs, s.path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("failed to create registry file: %w", err)
		}
		return New(), nil
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", s.path, err)
	}

	reg := New()
	if err := json.Unmarshal(data, reg); err != nil {
		s.logger.Error("Registry file is corrupted. Creating new one.", "path", s.path, "err", err)
		if werr := afero.WriteFile(s.fs, s.path, []byte("{}"), 0o644); werr != nil {
			s.logger.Error("Failed to reset corrupted registry", "path", s.path, "err", werr)
		}
		return New(), nil
	}

	return reg, nil
}

// Save writes reg to the registry file with four-space indentation.
func (s *Store) Save(reg *Registry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(reg); err != nil {
		s.logger.Error("Failed to encode registry", "err", err)
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	if err := afero.WriteFile(s.fs, s.path, buf.Bytes(), 0o644); err != nil {
		s.logger.Error("Failed to save registry", "path", s.path, "err", err)
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	s.logger.Info("Registry saved successfully.", "path", s.path, "mods", reg.Len())
	return nil
}

// Flush truncates the registry file to zero bytes. The next Load heals it.
func (s *Store) Flush() error {
	f, err := s.fs.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		s.logger.Error("Failed to flush registry", "path", s.path, "err", err)
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}
	s.logger.Warn("Registry flushed.", "path", s.path)
	return nil
}
