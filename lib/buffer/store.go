// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package buffer

import (
	"sort"
	"sync"
)

// Store owns every Buffer in a name→Buffer registry. Buffers are
// created through Open or OpenUntitled, soft-closed with MarkClosed,
// and destroyed only by Remove.
//
// Store performs no locking of its own. Callers that share a Store
// across goroutines wrap it in Shared.
type Store struct {
	items map[string]*Buffer
}

// NewStore creates an empty registry.
func NewStore() *Store {
	return &Store{items: make(map[string]*Buffer)}
}

// Open returns the buffer with the given name, creating it if absent,
// and marks it open either way.
func (s *Store) Open(name string) *Buffer {
	if existing, ok := s.items[name]; ok {
		existing.SetOpen(true)
		return existing
	}
	created := newBuffer(name)
	s.items[name] = created
	return created
}

// OpenUntitled is Open for buffers created without a user-chosen name:
// a new buffer carries the requires-name flag until it is renamed.
// An existing buffer with this name is returned as-is.
func (s *Store) OpenUntitled(name string) *Buffer {
	if existing, ok := s.items[name]; ok {
		existing.SetOpen(true)
		return existing
	}
	created := newUntitled(name)
	s.items[name] = created
	return created
}

// Get looks up a buffer without creating it.
func (s *Store) Get(name string) (*Buffer, bool) {
	b, ok := s.items[name]
	return b, ok
}

// List returns the names of all buffers, open or closed, sorted.
func (s *Store) List() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenBuffers returns the sorted names of open buffers only.
func (s *Store) OpenBuffers() []string {
	names := make([]string, 0, len(s.items))
	for name, b := range s.items {
		if b.IsOpen() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether the registry holds no buffers at all.
func (s *Store) IsEmpty() bool { return len(s.items) == 0 }

// Len returns the number of buffers, open or closed.
func (s *Store) Len() int { return len(s.items) }

// IsDirty reports whether the named buffer exists and has unsaved
// changes.
func (s *Store) IsDirty(name string) bool {
	b, ok := s.items[name]
	return ok && b.IsDirty()
}

// Save writes the named buffer to disk. Saving a buffer that does not
// exist is a no-op success.
func (s *Store) Save(name string) error {
	if b, ok := s.items[name]; ok {
		return b.SaveToDisk()
	}
	return nil
}

// SaveAll writes every dirty buffer to disk, stopping at the first
// failure.
func (s *Store) SaveAll() error {
	for _, name := range s.List() {
		if b := s.items[name]; b.IsDirty() {
			if err := b.SaveToDisk(); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveIfDirty writes the named buffer to disk only when it has
// unsaved changes. Reports whether a write happened.
func (s *Store) SaveIfDirty(name string) (bool, error) {
	b, ok := s.items[name]
	if !ok || !b.IsDirty() {
		return false, nil
	}
	if err := b.SaveToDisk(); err != nil {
		return false, err
	}
	return true, nil
}

// SaveInMemory clears the named buffer's dirty flag without touching
// disk — an explicit soft save for content whose durability is the
// buffer database. Reports whether the buffer exists.
func (s *Store) SaveInMemory(name string) bool {
	b, ok := s.items[name]
	if !ok {
		return false
	}
	b.MarkClean()
	return true
}

// MarkClosed soft-deletes the named buffer: it disappears from
// OpenBuffers but keeps its content and stays in the registry.
// Reports whether the buffer exists.
func (s *Store) MarkClosed(name string) bool {
	b, ok := s.items[name]
	if !ok {
		return false
	}
	b.SetOpen(false)
	return true
}

// Remove permanently destroys the named buffer. Reports whether it
// existed.
func (s *Store) Remove(name string) bool {
	if _, ok := s.items[name]; !ok {
		return false
	}
	delete(s.items, name)
	return true
}

// Rename moves a buffer to a new key and updates the buffer's own
// name, clearing its requires-name flag. It fails (false) when the
// names are equal, the new name is empty, the old buffer does not
// exist, or the new name is already taken. A rename never creates a
// second registry entry.
func (s *Store) Rename(oldName, newName string) bool {
	if oldName == newName || newName == "" {
		return false
	}
	b, ok := s.items[oldName]
	if !ok {
		return false
	}
	if _, taken := s.items[newName]; taken {
		return false
	}
	delete(s.items, oldName)
	b.SetName(newName)
	s.items[newName] = b
	return true
}

// Snapshots projects every buffer, open or closed, onto its
// serializable shape, ordered by name so consecutive saves of the same
// state produce identical payloads.
func (s *Store) Snapshots() []Snapshot {
	names := s.List()
	snapshots := make([]Snapshot, 0, len(names))
	for _, name := range names {
		snapshots = append(snapshots, s.items[name].Snapshot())
	}
	return snapshots
}

// Hydrate replaces the registry contents with buffers rebuilt from
// the given snapshots. Later duplicates of a name win, matching map
// insertion semantics.
func (s *Store) Hydrate(snapshots []Snapshot) {
	s.items = make(map[string]*Buffer, len(snapshots))
	for _, snapshot := range snapshots {
		s.items[snapshot.Name] = FromSnapshot(snapshot)
	}
}

// Editing passthroughs used by the editor. Each creates the buffer on
// demand, matching Open semantics for the write path.

// InsertChar inserts ch into the named buffer at row/col.
func (s *Store) InsertChar(name string, row, col int, ch rune) {
	s.Open(name).InsertChar(row, col, ch)
}

// DeleteChar deletes the character before col in the named buffer.
func (s *Store) DeleteChar(name string, row, col int) (int, int, bool) {
	b, ok := s.items[name]
	if !ok {
		return 0, 0, false
	}
	return b.DeleteChar(row, col)
}

// InsertNewline splits a line of the named buffer at row/col.
func (s *Store) InsertNewline(name string, row, col int) (int, int) {
	return s.Open(name).InsertNewline(row, col)
}

// PadLine pads a line of the named buffer with spaces to width.
func (s *Store) PadLine(name string, row, width int) {
	s.Open(name).PadLine(row, width)
}

// Append appends a line to the named buffer.
func (s *Store) Append(name, line string) {
	s.Open(name).Append(line)
}

// Shared is the single explicit monitor wrapper around one Store.
// It is created once at the composition root and handed to every
// collaborator; the Store itself never locks.
type Shared struct {
	mu    sync.Mutex
	store *Store
}

// NewShared wraps a store. The caller must not use the bare store
// afterwards.
func NewShared(store *Store) *Shared {
	return &Shared{store: store}
}

// Do runs fn with exclusive access to the store for the duration of
// the call.
func (s *Shared) Do(fn func(*Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}

// DoErr is Do for callbacks that fail.
func (s *Shared) DoErr(fn func(*Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}
