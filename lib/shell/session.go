// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"time"

	"github.com/iridium-shell/iridium/lib/editor"
)

// defaultRunSession hands the terminal to the editor for one buffer
// session. The editor persists through the same pipeline as the shell
// when auto-save is configured.
func (s *Shell) defaultRunSession(name string) error {
	options := editor.Options{
		DefaultMode: editor.ParseMode(s.config.Control.DefaultBufferMode),
		Persist:     s.persistStore,
	}
	if interval := s.config.Control.AutoSaveIntervalMs; interval > 0 {
		options.AutoSaveInterval = time.Duration(interval) * time.Millisecond
	}
	return editor.RunSession(s.store, name, options)
}
