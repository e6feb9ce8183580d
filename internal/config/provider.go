// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/spf13/afero"
)

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
	// Path returns the config file Load would read, or "" when defaults apply.
	Path(opts LoadOptions) (string, error)
}

type fileProvider struct {
	fs afero.Fs
}

// NewProvider creates a configuration provider reading from the OS filesystem.
func NewProvider() Provider {
	return &fileProvider{fs: afero.NewOsFs()}
}

// NewProviderWithFs creates a configuration provider reading from fs.
func NewProviderWithFs(fs afero.Fs) Provider {
	return &fileProvider{fs: fs}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, p.fs, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file Load would read.
func (p *fileProvider) Path(opts LoadOptions) (string, error) {
	return lookupPath(p.fs, opts)
}
