// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves .eqsat/project.yaml (spec.md-external
// ambient concern, SPEC_FULL.md §12), mirroring cmd/cie/config.go's
// Config/LoadConfig/SaveConfig/applyEnvOverrides shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/eqsat/internal/errors"
)

const (
	defaultConfigDir  = ".eqsat"
	defaultConfigFile = "project.yaml"
	configVersion     = "1"
)

// Config is the .eqsat/project.yaml document.
type Config struct {
	Version string       `yaml:"version"`
	Engine  EngineConfig `yaml:"engine"`
	Output  OutputConfig `yaml:"output"`

	// ConfigPath is the file Config was loaded from; not persisted.
	ConfigPath string `yaml:"-"`
}

// EngineConfig controls the e-graph engine's rebuild behavior.
type EngineConfig struct {
	Corebuild        bool `yaml:"corebuild"`
	WarnDeadBranches bool `yaml:"warn_dead_branches"`
}

// OutputConfig controls how eqsat renders results.
type OutputConfig struct {
	// Color is one of "auto", "always", "never".
	Color string `yaml:"color"`
}

// DefaultConfig returns the configuration eqsat init writes.
func DefaultConfig() *Config {
	return &Config{
		Version: configVersion,
		Engine: EngineConfig{
			Corebuild:        true,
			WarnDeadBranches: false,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// ConfigPath returns the path to the config file under dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, defaultConfigDir, defaultConfigFile)
}

// ConfigDir returns the path to the .eqsat directory under dir.
func ConfigDir(dir string) string {
	return filepath.Join(dir, defaultConfigDir)
}

// LoadConfig loads configuration from configPath, or discovers it by
// walking up from the current directory when configPath is empty. Env
// overrides are applied after the file is parsed.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("EQSAT_CONFIG_PATH")
	}
	if configPath == "" {
		var err error
		configPath, err = findConfigFile()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path comes from user config or discovery
	if err != nil {
		return nil, errors.NewConfigError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check file permissions and ensure the file exists",
			err,
		)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid configuration format",
			"YAML parsing failed - the config file contains syntax errors",
			fmt.Sprintf("Edit %s to fix syntax errors, or run 'eqsat init --force' to recreate", configPath),
			err,
		)
	}

	if cfg.Version != configVersion {
		return nil, errors.NewConfigError(
			"Unsupported configuration version",
			fmt.Sprintf("Config version %q is not supported (expected %q)", cfg.Version, configVersion),
			"Run 'eqsat init --force' to regenerate the configuration file",
			nil,
		)
	}

	cfg.ConfigPath = configPath
	cfg.applyEnvOverrides()
	return &cfg, nil
}

// SaveConfig writes cfg to configPath as YAML, creating the parent
// directory if needed.
func SaveConfig(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug. Please report it with your configuration details",
			err,
		)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.NewPermissionError(
			"Cannot create configuration directory",
			fmt.Sprintf("Permission denied creating %s", dir),
			"Check directory permissions or run with appropriate privileges",
			err,
		)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.NewPermissionError(
			"Cannot write configuration file",
			fmt.Sprintf("Permission denied writing to %s", configPath),
			"Check file permissions and ensure sufficient disk space",
			err,
		)
	}

	return nil
}

func findConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.NewInternalError(
			"Cannot access working directory",
			"Failed to determine current directory path",
			"Check system permissions and try again",
			err,
		)
	}

	for {
		candidate := ConfigPath(dir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.NewConfigError(
		"Configuration not found",
		"No .eqsat/project.yaml file found in current directory or any parent directory",
		"Run 'eqsat init' to create a new configuration",
		nil,
	)
}

// applyEnvOverrides lets EQSAT_COREBUILD and NO_COLOR override the file's
// settings, matching the teacher's env-override convention.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EQSAT_COREBUILD"); v != "" {
		c.Engine.Corebuild = v != "0"
	}
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = "never"
	}
}
