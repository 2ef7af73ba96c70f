// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

// Package buffer provides the in-memory registry of named text buffers
// that backs the iridium editor and shell commands.
//
// A Buffer is an ordered sequence of text lines plus the bookkeeping
// the editor needs: a dirty flag (unsaved changes), a requires-name
// flag (created without a user-chosen name), and an open flag
// (soft-delete). The Store owns all buffers in a name→Buffer map and
// is the only way collaborators create, rename, or destroy them.
//
// All column arithmetic in editing operations is by character index,
// not byte index — multi-byte UTF-8 text edits at the correct
// boundaries.
//
// Nothing in this package locks. The Store assumes one exclusive
// caller per call; Shared is the explicit monitor wrapper that
// collaborators on different goroutines go through.
package buffer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Buffer is one named, ordered sequence of text lines. The name
// doubles as the destination path when the buffer is saved to disk.
type Buffer struct {
	name         string
	lines        []string
	dirty        bool
	requiresName bool
	isOpen       bool
}

// newBuffer creates an empty open buffer with a user-chosen name.
func newBuffer(name string) *Buffer {
	return &Buffer{name: name, isOpen: true}
}

// newUntitled creates an empty open buffer that still needs a real
// name before it can be meaningfully saved.
func newUntitled(name string) *Buffer {
	return &Buffer{name: name, requiresName: true, isOpen: true}
}

// Name returns the buffer's name (and on-disk save path).
func (b *Buffer) Name() string { return b.name }

// SetName renames the buffer and clears the requires-name flag. Only
// the Store calls this for buffers it owns, so the registry key and
// the buffer's own name never diverge.
func (b *Buffer) SetName(name string) {
	b.name = name
	b.requiresName = false
}

// RequiresName reports whether the buffer was created without a
// user-chosen name and has not been named since.
func (b *Buffer) RequiresName() bool { return b.requiresName }

// IsOpen reports whether the buffer is open (not soft-deleted).
func (b *Buffer) IsOpen() bool { return b.isOpen }

// SetOpen flips the soft-delete flag. Content is retained either way.
func (b *Buffer) SetOpen(open bool) { b.isOpen = open }

// IsDirty reports whether the buffer has changed since it was last
// durably saved or explicitly marked clean.
func (b *Buffer) IsDirty() bool { return b.dirty }

// MarkClean clears the dirty flag without writing anything. This is
// the "soft save" used when persistence to the buffer database counts
// as durable enough for the caller.
func (b *Buffer) MarkClean() { b.dirty = false }

// Lines returns the buffer's lines. The slice is the live backing
// store — callers must not mutate it.
func (b *Buffer) Lines() []string { return b.lines }

// Append adds a line to the end of the buffer and marks it dirty.
func (b *Buffer) Append(line string) {
	b.lines = append(b.lines, line)
	b.dirty = true
}

// Clear removes all lines and marks the buffer dirty.
func (b *Buffer) Clear() {
	b.lines = nil
	b.dirty = true
}

// RemoveLast removes and returns the last line. Removing from an
// empty buffer is a no-op that leaves the dirty flag untouched.
func (b *Buffer) RemoveLast() (string, bool) {
	if len(b.lines) == 0 {
		return "", false
	}
	last := b.lines[len(b.lines)-1]
	b.lines = b.lines[:len(b.lines)-1]
	b.dirty = true
	return last, true
}

// InsertChar places ch at character position col of line row. Missing
// rows are created as empty lines; a column past the end of the line
// pads the gap with spaces. A character already at col is overwritten.
func (b *Buffer) InsertChar(row, col int, ch rune) {
	b.growTo(row)

	runes := []rune(b.lines[row])
	if col > len(runes) {
		runes = append(runes, spaces(col-len(runes))...)
	}
	if col >= len(runes) {
		runes = append(runes, ch)
	} else {
		runes[col] = ch
	}
	b.lines[row] = string(runes)
	b.dirty = true
}

// DeleteChar removes the character immediately before col on line
// row, returning the resulting cursor position. It is a no-op (ok
// false, dirty untouched) when the row does not exist, col is zero,
// or col is past the end of the line.
func (b *Buffer) DeleteChar(row, col int) (newRow, newCol int, ok bool) {
	if row >= len(b.lines) {
		return 0, 0, false
	}
	runes := []rune(b.lines[row])
	if col == 0 || col > len(runes) {
		return 0, 0, false
	}
	b.lines[row] = string(append(runes[:col-1:col-1], runes[col:]...))
	b.dirty = true
	return row, col - 1, true
}

// InsertNewline splits line row at character position col: the prefix
// stays at row, the suffix becomes a new line at row+1. Missing rows
// are created and a column past the end pads with spaces first.
// Returns the cursor position at the start of the new line.
func (b *Buffer) InsertNewline(row, col int) (newRow, newCol int) {
	b.growTo(row)

	runes := []rune(b.lines[row])
	if col > len(runes) {
		runes = append(runes, spaces(col-len(runes))...)
	}
	prefix, suffix := string(runes[:col]), string(runes[col:])

	b.lines[row] = prefix
	b.lines = append(b.lines, "")
	copy(b.lines[row+2:], b.lines[row+1:])
	b.lines[row+1] = suffix
	b.dirty = true
	return row + 1, 0
}

// PadLine extends line row with spaces until it is width characters
// long, creating missing rows first. A line already long enough is
// left alone and the dirty flag is untouched.
func (b *Buffer) PadLine(row, width int) {
	b.growTo(row)

	runes := []rune(b.lines[row])
	if len(runes) >= width {
		return
	}
	b.lines[row] = string(append(runes, spaces(width-len(runes))...))
	b.dirty = true
}

// SaveToDisk writes the lines, newline-joined with a trailing newline,
// to the path given by the buffer's name, creating parent directories
// as needed. Clears the dirty flag on success.
func (b *Buffer) SaveToDisk() error {
	if parent := filepath.Dir(b.name); parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("creating parent directory for buffer %q: %w", b.name, err)
		}
	}

	var content strings.Builder
	for _, line := range b.lines {
		content.WriteString(line)
		content.WriteByte('\n')
	}
	if err := os.WriteFile(b.name, []byte(content.String()), 0o644); err != nil {
		return fmt.Errorf("writing buffer %q: %w", b.name, err)
	}

	b.dirty = false
	return nil
}

// Print writes the buffer contents to w, or a placeholder when the
// buffer is empty.
func (b *Buffer) Print(w io.Writer) {
	if len(b.lines) == 0 {
		fmt.Fprintf(w, "(buffer '%s' is empty)\n", b.name)
		return
	}
	for _, line := range b.lines {
		fmt.Fprintln(w, line)
	}
}

// Snapshot projects the buffer onto its serializable persistence
// shape. The lines are copied; mutating the buffer afterwards does
// not alter the snapshot.
func (b *Buffer) Snapshot() Snapshot {
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return Snapshot{
		Name:         b.name,
		Lines:        lines,
		RequiresName: b.requiresName,
		IsOpen:       b.isOpen,
		Dirty:        b.dirty,
	}
}

// FromSnapshot rehydrates a buffer from its persisted projection.
func FromSnapshot(snapshot Snapshot) *Buffer {
	return &Buffer{
		name:         snapshot.Name,
		lines:        snapshot.Lines,
		dirty:        snapshot.Dirty,
		requiresName: snapshot.RequiresName,
		isOpen:       snapshot.IsOpen,
	}
}

// growTo appends empty lines until row is a valid index.
func (b *Buffer) growTo(row int) {
	for len(b.lines) <= row {
		b.lines = append(b.lines, "")
	}
}

func spaces(n int) []rune {
	padding := make([]rune, n)
	for i := range padding {
		padding[i] = ' '
	}
	return padding
}
