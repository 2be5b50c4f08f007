package config

import (
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/isseis/go-shellexpand/internal/safefile"
)

// Loader handles loading and validating configurations.
type Loader struct{}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses, defaults, and validates the configuration at path.
// Relative env file paths are resolved against the config file's
// directory, so a config travels with its .env files.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyConfigPath
	}

	content, err := safefile.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := l.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, envFile := range cfg.Environment.EnvFiles {
		if !filepath.IsAbs(envFile) {
			cfg.Environment.EnvFiles[i] = filepath.Join(dir, envFile)
		}
	}

	return cfg, nil
}

// Parse parses raw TOML content, applies defaults, and validates.
func (l *Loader) Parse(content []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
