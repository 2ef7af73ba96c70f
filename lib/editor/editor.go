// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

// Package editor is the embedded modal buffer editor: a Bubble Tea
// program with an insert mode for typing and a command mode for
// movement and colon commands. Every mutation goes through the shared
// buffer store, so the shell and the persistence pipeline always see
// the same state the editor does.
package editor

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iridium-shell/iridium/lib/buffer"
)

// Mode is the editor's input mode.
type Mode int

const (
	// ModeInsert types runes into the buffer.
	ModeInsert Mode = iota

	// ModeCommand interprets keys as movement and commands.
	ModeCommand
)

// String returns the status-bar label of the mode.
func (m Mode) String() string {
	if m == ModeCommand {
		return "COMMAND"
	}
	return "INSERT"
}

// ParseMode resolves a configured mode name; anything other than
// "command" means insert.
func ParseMode(name string) Mode {
	if strings.EqualFold(strings.TrimSpace(name), "command") {
		return ModeCommand
	}
	return ModeInsert
}

// Options configures one editor session.
type Options struct {
	// DefaultMode is the mode the session starts in.
	DefaultMode Mode

	// AutoSaveInterval persists the store at this cadence while the
	// session runs. Zero disables auto-save.
	AutoSaveInterval time.Duration

	// Persist writes the buffer database. Used by auto-save; may be
	// nil when auto-save is disabled.
	Persist func() error
}

// RunSession edits the named buffer until the user quits the session.
// It owns the terminal for the duration.
func RunSession(store *buffer.Shared, name string, options Options) error {
	program := tea.NewProgram(newModel(store, name, options), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
