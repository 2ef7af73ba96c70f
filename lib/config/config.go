// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the shell configuration file (~/.iridiumrc by
// default, YAML). Settings read from the file are defaults; environment
// variables override them, and command-line flags override both. The
// layering itself happens where each setting is consumed — this package
// only locates, parses, and validates the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Model is the parsed configuration file. Zero values mean "not set";
// consumers apply their own defaults.
type Model struct {
	Persistence PersistenceSection `yaml:"persistence"`
	Control     ControlSection     `yaml:"control"`
	UI          UISection          `yaml:"ui"`

	// sourcePath is the file this model was loaded from, empty when no
	// file existed.
	sourcePath string
}

// PersistenceSection configures the buffer database.
type PersistenceSection struct {
	// DatabasePath overrides the default buffer database location.
	DatabasePath string `yaml:"database_path"`

	// Compression selects the compression algorithm ("lz4" or "zstd").
	Compression string `yaml:"compression"`

	// Encrypt enables the encryption layer. A nil pointer means the
	// setting is absent, which is distinct from an explicit false.
	Encrypt *bool `yaml:"encrypt"`

	// Algorithm selects the AEAD cipher ("chacha20poly1305" or
	// "aes-256-gcm").
	Algorithm string `yaml:"algorithm"`

	// KeyFile is the path of a hex-encoded 32-byte raw key.
	KeyFile string `yaml:"key_file"`

	// Passphrase enables passphrase mode. Storing a passphrase in the
	// configuration file is a convenience for low-stakes setups; the
	// environment variable is preferred.
	Passphrase string `yaml:"passphrase"`

	// PBKDF2Iterations overrides the passphrase stretching count.
	PBKDF2Iterations int `yaml:"pbkdf2_iterations"`
}

// ControlSection configures the interactive control loop.
type ControlSection struct {
	// AutoSaveIntervalMs persists dirty buffers every interval while a
	// buffer session is active. Zero disables auto-save.
	AutoSaveIntervalMs int `yaml:"auto_save_interval_ms"`

	// DefaultBufferMode is the editor mode a buffer session starts in,
	// "insert" or "command".
	DefaultBufferMode string `yaml:"default_buffer_mode"`
}

// UISection configures presentation.
type UISection struct {
	// PromptTheme selects the prompt color scheme.
	PromptTheme string `yaml:"prompt_theme"`
}

// SourcePath returns the path of the file this configuration was loaded
// from, or empty when no configuration file existed.
func (m *Model) SourcePath() string {
	return m.sourcePath
}

// ResolvePath expands a leading ~ and resolves a relative path against
// the directory of the configuration file it came from, so paths in
// ~/.iridiumrc mean the same thing regardless of the shell's working
// directory.
func (m *Model) ResolvePath(path string) string {
	expanded := ExpandHome(path)
	if filepath.IsAbs(expanded) || m.sourcePath == "" {
		return expanded
	}
	return filepath.Join(filepath.Dir(m.sourcePath), expanded)
}

// Load resolves the configuration file path (the IRIDIUM_CONFIG
// environment variable, falling back to ~/.iridiumrc) and parses it.
// A missing file is not an error: the returned model is all defaults.
// A malformed file is logged and treated as missing rather than
// aborting shell startup.
func Load(logger *slog.Logger) *Model {
	path, explicit := resolveConfigPath()
	model, err := LoadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Model{}
		}
		logger.Warn("ignoring unreadable configuration file",
			"path", path,
			"error", err)
		return &Model{}
	}
	return model
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var model Model
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parsing configuration file %s: %w", path, err)
	}
	model.sourcePath = path
	return &model, nil
}

// resolveConfigPath returns the configuration file path and whether it
// was set explicitly via IRIDIUM_CONFIG.
func resolveConfigPath() (string, bool) {
	if path := strings.TrimSpace(os.Getenv("IRIDIUM_CONFIG")); path != "" {
		return ExpandHome(path), true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".iridiumrc", false
	}
	return filepath.Join(home, ".iridiumrc"), false
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
