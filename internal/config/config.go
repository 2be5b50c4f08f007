// Package config provides loading, defaulting, and validation of the TOML
// configuration consumed by the shellexpand command line tool.
package config

import (
	"errors"
	"fmt"

	"github.com/isseis/go-shellexpand/internal/environment"
)

// Error definitions for the config package
var (
	// ErrEmptyConfigPath is returned when the config file path is empty.
	ErrEmptyConfigPath = errors.New("config file path cannot be empty")
)

// Config is the root of the TOML configuration.
type Config struct {
	Expand      ExpandConfig      `toml:"expand"`
	Variables   map[string]string `toml:"variables"`
	Environment EnvironmentConfig `toml:"environment"`
}

// ExpandConfig controls how expansion behaves.
type ExpandConfig struct {
	// Unknown is the policy for variables with no value: keep, empty, or
	// error. Defaults to keep.
	Unknown string `toml:"unknown"`

	// Tilde enables leading-tilde expansion. Defaults to true. A pointer
	// distinguishes "absent" from an explicit false.
	Tilde *bool `toml:"tilde"`

	// Home overrides the home directory used for tilde expansion. When
	// empty, the OS-reported home directory is used.
	Home string `toml:"home"`
}

// EnvironmentConfig controls which environment variables participate in
// resolution.
type EnvironmentConfig struct {
	// AllowSystem enables the system environment as a variable source.
	// Defaults to true.
	AllowSystem *bool `toml:"allow_system"`

	// Allowlist restricts which system variables are admitted. Nil means
	// all; an empty list means none.
	Allowlist []string `toml:"allowlist"`

	// EnvFiles lists .env files to load, in increasing precedence order.
	// Relative paths are resolved against the config file's directory.
	EnvFiles []string `toml:"env_files"`
}

// Default returns a configuration with all defaults applied and no
// variables or env files.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Expand.Unknown == "" {
		c.Expand.Unknown = string(environment.PolicyKeep)
	}
	if c.Expand.Tilde == nil {
		enabled := true
		c.Expand.Tilde = &enabled
	}
	if c.Environment.AllowSystem == nil {
		allowed := true
		c.Environment.AllowSystem = &allowed
	}
}

// TildeEnabled reports whether leading-tilde expansion is on.
func (c *Config) TildeEnabled() bool {
	return c.Expand.Tilde == nil || *c.Expand.Tilde
}

// SystemEnvAllowed reports whether the system environment participates in
// resolution.
func (c *Config) SystemEnvAllowed() bool {
	return c.Environment.AllowSystem == nil || *c.Environment.AllowSystem
}

// UnknownPolicy returns the parsed unknown-variable policy.
func (c *Config) UnknownPolicy() (environment.UnknownPolicy, error) {
	return environment.ParsePolicy(c.Expand.Unknown)
}

// Validate checks the configuration for errors that parsing cannot catch:
// an unrecognized policy, malformed variable names, or empty file entries.
func (c *Config) Validate() error {
	if _, err := c.UnknownPolicy(); err != nil {
		return err
	}
	for name := range c.Variables {
		if err := environment.ValidateName(name); err != nil {
			return fmt.Errorf("invalid variable in [variables]: %w", err)
		}
	}
	for _, name := range c.Environment.Allowlist {
		if err := environment.ValidateName(name); err != nil {
			return fmt.Errorf("invalid name in environment allowlist: %w", err)
		}
	}
	for i, path := range c.Environment.EnvFiles {
		if path == "" {
			return fmt.Errorf("environment env_files[%d] is empty", i)
		}
	}
	return nil
}
