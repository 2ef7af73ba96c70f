// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"log/slog"

	"github.com/iridium-shell/iridium/lib/buffer"
)

// Manager ties a resolved configuration to a constructed pipeline and
// exposes the two operations the shell needs: hydrate the store on
// startup and persist it on demand. The pipeline is built once at
// construction; the flags word it produces is therefore stable for the
// lifetime of the process.
type Manager struct {
	config   *Config
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewManager builds the pipeline described by the configuration:
// the compression layer always, the encryption layer when configured.
func NewManager(cfg *Config, logger *slog.Logger) *Manager {
	pipeline := NewPipeline()
	if cfg.Enabled {
		pipeline.Push(NewCompressionLayer(cfg.Compression))
		if cfg.Encryption != nil {
			pipeline.Push(NewEncryptionLayer(*cfg.Encryption))
		}
	}
	return &Manager{config: cfg, pipeline: pipeline, logger: logger}
}

// Enabled reports whether persistence is active.
func (m *Manager) Enabled() bool {
	return m.config.Enabled
}

// DatabasePath returns the resolved database location, empty when
// persistence is disabled.
func (m *Manager) DatabasePath() string {
	if !m.config.Enabled {
		return ""
	}
	return m.config.DatabasePath
}

// Load reads the buffer database and returns its snapshots. When
// persistence is disabled or the database does not exist yet, it
// returns an empty slice.
func (m *Manager) Load() ([]buffer.Snapshot, error) {
	if !m.config.Enabled {
		return nil, nil
	}
	return Load(m.config.DatabasePath, m.pipeline)
}

// Store persists the snapshots atomically. A no-op when persistence is
// disabled.
func (m *Manager) Store(snapshots []buffer.Snapshot) error {
	if !m.config.Enabled {
		return nil
	}
	return Store(m.config.DatabasePath, m.pipeline, snapshots)
}

// StoreAll snapshots every buffer in the store and persists them.
func (m *Manager) StoreAll(store *buffer.Store) error {
	if !m.config.Enabled {
		return nil
	}
	return m.Store(store.Snapshots())
}

// Hydrate loads the database and populates the store. Load failures
// are logged and leave the store empty: a corrupt or unreadable
// database must not prevent the shell from starting, and the file is
// left untouched for manual recovery.
func (m *Manager) Hydrate(store *buffer.Store) {
	if !m.config.Enabled {
		return
	}

	snapshots, err := m.Load()
	if err != nil {
		m.logger.Warn("could not load buffer database, starting empty",
			"path", m.config.DatabasePath,
			"error", err)
		return
	}
	store.Hydrate(snapshots)
}

// Close releases key material held by the configuration.
func (m *Manager) Close() error {
	return m.config.Close()
}
