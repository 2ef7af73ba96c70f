// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iridium-shell/iridium/lib/config"
	"github.com/iridium-shell/iridium/lib/secret"
)

// Environment variables consulted during resolution. Each overrides
// the corresponding configuration-file setting.
const (
	envDatabasePath       = "IRIDIUM_BUFFER_DB_PATH"
	envDisablePersistence = "IRIDIUM_DISABLE_PERSISTENCE"
	envCompression        = "IRIDIUM_PERSIST_COMPRESSION"
	envEncrypt            = "IRIDIUM_PERSIST_ENCRYPT"
	envAlgorithm          = "IRIDIUM_PERSIST_ALGO"
	envRawKey             = "IRIDIUM_PERSIST_KEY"
	envKeyFile            = "IRIDIUM_PERSIST_KEY_FILE"
	envPassphrase         = "IRIDIUM_PERSIST_PASSPHRASE"
	envPBKDF2Iterations   = "IRIDIUM_PERSIST_PBKDF_ITERS"
)

// Config is the fully resolved persistence configuration. Resolution
// order for every setting is environment variable, then configuration
// file, then built-in default.
type Config struct {
	// Enabled gates the whole subsystem. When false, Load and Store are
	// no-ops and the database file is never touched.
	Enabled bool

	// DatabasePath is the buffer database location.
	DatabasePath string

	// Compression is the algorithm of the always-present compression
	// layer.
	Compression CompressionAlgorithm

	// Encryption is non-nil when the encryption layer is enabled. The
	// Config owns the key material; Close releases it.
	Encryption *Encryption
}

// Close releases any key material held by the configuration.
func (c *Config) Close() error {
	if c.Encryption != nil {
		return c.Encryption.Close()
	}
	return nil
}

// ResolveConfig builds the persistence configuration from the
// environment and the parsed configuration file.
//
// Resolution never aborts shell startup. An unusable encryption
// configuration (bad key file, malformed key, missing key material)
// disables persistence entirely rather than silently writing
// plaintext; an unknown compression or cipher name falls back to the
// default with a warning.
func ResolveConfig(model *config.Model, logger *slog.Logger) (*Config, error) {
	if isTruthy(os.Getenv(envDisablePersistence)) {
		return &Config{Enabled: false}, nil
	}

	resolved := &Config{
		Enabled:      true,
		DatabasePath: resolveDatabasePath(model),
		Compression:  resolveCompression(model, logger),
	}

	encryption, err := resolveEncryption(model, logger)
	if err != nil {
		// Persisting plaintext when the user asked for encryption would
		// be worse than not persisting at all.
		logger.Warn("encryption configuration unusable, disabling persistence",
			"error", err)
		return &Config{Enabled: false}, nil
	}
	resolved.Encryption = encryption
	return resolved, nil
}

// resolveDatabasePath picks the database location: environment
// variable, configuration file, then $XDG_DATA_HOME/iridium/buffers.db
// (falling back to ~/.local/share when XDG_DATA_HOME is unset).
func resolveDatabasePath(model *config.Model) string {
	if path := strings.TrimSpace(os.Getenv(envDatabasePath)); path != "" {
		return config.ExpandHome(path)
	}
	if path := strings.TrimSpace(model.Persistence.DatabasePath); path != "" {
		return model.ResolvePath(path)
	}

	dataHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME"))
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("iridium", "buffers.db")
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "iridium", "buffers.db")
}

func resolveCompression(model *config.Model, logger *slog.Logger) CompressionAlgorithm {
	name := strings.TrimSpace(os.Getenv(envCompression))
	if name == "" {
		name = strings.TrimSpace(model.Persistence.Compression)
	}
	if name == "" {
		return DefaultCompression
	}

	algorithm, ok := ParseCompressionAlgorithm(name)
	if !ok {
		logger.Warn("unknown compression algorithm, using default",
			"requested", name,
			"default", DefaultCompression.String())
		return DefaultCompression
	}
	return algorithm
}

// resolveEncryption returns nil when encryption is not enabled, the
// resolved settings when it is, or an error when it is enabled but the
// key material cannot be loaded.
func resolveEncryption(model *config.Model, logger *slog.Logger) (*Encryption, error) {
	enabled := false
	if model.Persistence.Encrypt != nil {
		enabled = *model.Persistence.Encrypt
	}
	if value := os.Getenv(envEncrypt); value != "" {
		enabled = isTruthy(value)
	}
	if !enabled {
		return nil, nil
	}

	algorithm := EncryptionChaCha20Poly1305
	name := strings.TrimSpace(os.Getenv(envAlgorithm))
	if name == "" {
		name = strings.TrimSpace(model.Persistence.Algorithm)
	}
	if name != "" {
		parsed, ok := ParseEncryptionAlgorithm(name)
		if !ok {
			logger.Warn("unknown encryption algorithm, using default",
				"requested", name,
				"default", algorithm.String())
		} else {
			algorithm = parsed
		}
	}

	key, err := resolveKeySource(model)
	if err != nil {
		return nil, err
	}
	return &Encryption{Algorithm: algorithm, Key: key}, nil
}

// resolveKeySource loads key material in precedence order: raw key
// from the environment, key file, then passphrase. Raw keys take
// priority over passphrases when both are configured.
func resolveKeySource(model *config.Model) (KeySource, error) {
	if hexKey := os.Getenv(envRawKey); strings.TrimSpace(hexKey) != "" {
		buffer, err := secret.ReadHex(hexKey)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", envRawKey, err)
		}
		return newRawKeyOwning(buffer)
	}

	keyFile := strings.TrimSpace(os.Getenv(envKeyFile))
	if keyFile != "" {
		keyFile = config.ExpandHome(keyFile)
	} else if fromFile := strings.TrimSpace(model.Persistence.KeyFile); fromFile != "" {
		keyFile = model.ResolvePath(fromFile)
	}
	if keyFile != "" {
		buffer, err := secret.ReadHexFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file %s: %w", keyFile, err)
		}
		return newRawKeyOwning(buffer)
	}

	passphrase := os.Getenv(envPassphrase)
	if passphrase == "" {
		passphrase = model.Persistence.Passphrase
	}
	if passphrase != "" {
		buffer, err := secret.NewFromBytes([]byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("storing passphrase: %w", err)
		}
		return NewPassphraseKey(buffer, resolveIterations(model))
	}

	return nil, ErrMissingEncryptionKey
}

// newRawKeyOwning wraps NewRawKey and closes the buffer when the key
// is rejected, so invalid key material never outlives the error.
func newRawKeyOwning(buffer *secret.Buffer) (KeySource, error) {
	key, err := NewRawKey(buffer)
	if err != nil {
		buffer.Close()
		return nil, err
	}
	return key, nil
}

func resolveIterations(model *config.Model) int {
	if value := strings.TrimSpace(os.Getenv(envPBKDF2Iterations)); value != "" {
		if iterations, err := strconv.Atoi(value); err == nil && iterations > 0 {
			return iterations
		}
	}
	if model.Persistence.PBKDF2Iterations > 0 {
		return model.Persistence.PBKDF2Iterations
	}
	return DefaultPBKDF2Iterations
}

// isTruthy interprets boolean environment variables: 1, true, yes, and
// on (case-insensitive) are true, everything else is false.
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
