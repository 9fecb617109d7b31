// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// Config represents the complete service configuration.
type Config struct {
	Log LogConfig `yaml:"log"`

	// ConfigRoot is the directory holding the editors' configuration
	// directories ("Code", "VSCodium", ...).
	// Environment: CODE_SEARCH_PROVIDER_CONFIG_ROOT
	// Default: $XDG_CONFIG_HOME
	ConfigRoot string `yaml:"config_root,omitempty"`
}

// LogConfig configures the service logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Environment: CODE_SEARCH_PROVIDER_LOG_LEVEL, LOG_LEVEL, CODE_SEARCH_PROVIDER_DEBUG
	Level string `yaml:"level"`

	// Format is json or text.
	// Environment: LOG_FORMAT
	Format string `yaml:"format"`

	// AddSource adds source locations to log records.
	// Environment: LOG_SOURCE
	AddSource bool `yaml:"add_source"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		ConfigRoot: xdg.ConfigHome,
	}
}

// Load loads configuration from an optional YAML file and the environment.
// Environment variables take precedence over file-based configuration.
//
// If configPath is empty the default location is tried and silently skipped
// when absent. An explicitly given path must exist.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	path := configPath
	if path == "" {
		path = DefaultPath()
	}

	if err := cfg.loadFromFile(path); err != nil {
		if configPath != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, &providererrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", path),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &providererrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// applyDefaults fills in zero values left by a partial config file.
func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.ConfigRoot == "" {
		c.ConfigRoot = defaults.ConfigRoot
	}
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("CODE_SEARCH_PROVIDER_CONFIG_ROOT"); val != "" {
		c.ConfigRoot = val
	}
	if val := os.Getenv("CODE_SEARCH_PROVIDER_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	} else if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.ToLower(val) == "true"
	}
	if val := os.Getenv("CODE_SEARCH_PROVIDER_DEBUG"); val == "1" || val == "true" {
		c.Log.Level = "debug"
		c.Log.AddSource = true
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [debug, info, warn, warning, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	root, err := expandHome(c.ConfigRoot)
	if err != nil {
		errs = append(errs, fmt.Sprintf("config_root: %v", err))
	} else if !filepath.IsAbs(root) {
		errs = append(errs, fmt.Sprintf("config_root must be an absolute path, got %q", c.ConfigRoot))
	} else {
		c.ConfigRoot = root
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
