// Package config loads designlog settings from file, environment, and
// defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// Default values applied when neither file nor environment set a key.
const (
	DefaultStorageDir = ".designlog"
	DefaultMode       = string(commit.ModeSemantic)
)

// ErrInvalidMode is returned for an unrecognized versioning mode.
var ErrInvalidMode = errors.New("config: invalid versioning mode")

// StorageConfig locates the key-value backend.
type StorageConfig struct {
	// Dir is the directory for the Badger database.
	Dir string `mapstructure:"dir"`
	// InMemory bypasses the disk entirely. Useful for tests and dry runs.
	InMemory bool `mapstructure:"in_memory"`
}

// VersioningConfig selects how version labels are generated.
type VersioningConfig struct {
	Mode string `mapstructure:"mode"`
}

// FeedbackConfig locates the host comment API.
type FeedbackConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Token    string `mapstructure:"token"`
}

// Config is the full designlog configuration.
type Config struct {
	Document   string           `mapstructure:"document"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Versioning VersioningConfig `mapstructure:"versioning"`
	Feedback   FeedbackConfig   `mapstructure:"feedback"`
}

// Mode returns the configured versioning mode as its typed form.
func (c *Config) Mode() commit.Mode {
	return commit.Mode(c.Versioning.Mode)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	mode := commit.Mode(c.Versioning.Mode)
	if mode != commit.ModeSemantic && mode != commit.ModeDateBased {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Versioning.Mode)
	}

	return nil
}
