// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions pins down where configuration is read from. The zero value
// means platform defaults (ConfigDir lookup).
type LoadOptions struct {
	// ConfigFilePath loads exactly this file, bypassing the directory
	// lookup. Missing file is an error rather than a fallback.
	ConfigFilePath string
	// ConfigDirPath looks for config.cue in this directory instead of the
	// platform config directory.
	ConfigDirPath string
}

// Provider is the loading seam the CLI depends on, so commands can be
// tested against a canned configuration.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type cueFileProvider struct{}

// NewProvider returns the CUE-file-backed provider.
func NewProvider() Provider {
	return &cueFileProvider{}
}

// Load resolves, schema-checks, and decodes the configuration for the
// requested source.
func (p *cueFileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
