// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

const (
	ConfigDir  = ".comtrade"
	ConfigFile = "config.yaml"

	DefaultLogLevel = "info"
	DefaultFormat   = FormatJSON
	DefaultWorkers  = 1

	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrConfigFileExists is returned when persisting over an existing file without overwrite.
type ErrConfigFileExists struct {
	Path string
}

func (e ErrConfigFileExists) Error() string {
	return fmt.Sprintf("config file %s already exists", e.Path)
}

// Config holds the command line tool settings.
type Config struct {
	LogLevel string `json:"logLevel,omitempty"`
	Format   string `json:"format,omitempty"`
	Workers  int    `json:"workers,omitempty"`
	filepath string
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Format:   DefaultFormat,
		Workers:  DefaultWorkers,
		filepath: DefaultConfigPath(),
	}
}

// Path returns the file the config is loaded from and persisted to.
func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

// Load overlays the config file onto c. A missing file leaves c unchanged.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", c.filepath, err)
	}
	return c.Validate()
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.filepath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0o644)
}

func (c *Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q, must be %s or %s", c.Format, FormatJSON, FormatYAML)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
