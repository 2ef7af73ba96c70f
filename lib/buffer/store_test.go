// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package buffer

import (
	"reflect"
	"testing"
)

func TestOpenIsIdempotent(t *testing.T) {
	store := NewStore()

	first := store.Open("notes")
	first.Append("content")

	second := store.Open("notes")
	if first != second {
		t.Fatal("Open should return the existing buffer, not create a new one")
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d; want 1", store.Len())
	}
}

func TestOpenReopensClosedBuffer(t *testing.T) {
	store := NewStore()
	store.Open("notes")

	if !store.MarkClosed("notes") {
		t.Fatal("MarkClosed should find the buffer")
	}
	if got := store.OpenBuffers(); len(got) != 0 {
		t.Fatalf("OpenBuffers after close = %q; want empty", got)
	}

	store.Open("notes")
	if got := store.OpenBuffers(); !reflect.DeepEqual(got, []string{"notes"}) {
		t.Fatalf("OpenBuffers after reopen = %q; want [notes]", got)
	}
	if store.Len() != 1 {
		t.Fatal("reopening must not duplicate the buffer")
	}
}

func TestOpenUntitled(t *testing.T) {
	store := NewStore()
	b := store.OpenUntitled("untitled-1")
	if !b.RequiresName() {
		t.Fatal("untitled buffer should require a name")
	}

	again := store.OpenUntitled("untitled-1")
	if b != again {
		t.Fatal("OpenUntitled should return the existing buffer")
	}
}

func TestListIsSorted(t *testing.T) {
	store := NewStore()
	store.Open("zebra")
	store.Open("alpha")
	store.Open("middle")
	store.MarkClosed("middle")

	want := []string{"alpha", "middle", "zebra"}
	if got := store.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %q; want %q", got, want)
	}

	wantOpen := []string{"alpha", "zebra"}
	if got := store.OpenBuffers(); !reflect.DeepEqual(got, wantOpen) {
		t.Fatalf("OpenBuffers = %q; want %q", got, wantOpen)
	}
}

func TestRename(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		from, to string
		want     bool
	}{
		{name: "simple rename", existing: []string{"old"}, from: "old", to: "new", want: true},
		{name: "equal names", existing: []string{"same"}, from: "same", to: "same", want: false},
		{name: "empty target", existing: []string{"old"}, from: "old", to: "", want: false},
		{name: "missing source", existing: nil, from: "ghost", to: "new", want: false},
		{name: "target taken", existing: []string{"old", "new"}, from: "old", to: "new", want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := NewStore()
			for _, name := range test.existing {
				store.Open(name)
			}
			before := store.Len()

			if got := store.Rename(test.from, test.to); got != test.want {
				t.Fatalf("Rename(%q, %q) = %v; want %v", test.from, test.to, got, test.want)
			}
			if store.Len() != before {
				t.Fatal("rename must never change the number of buffers")
			}
			if test.want {
				renamed, ok := store.Get(test.to)
				if !ok {
					t.Fatal("renamed buffer missing under new name")
				}
				if renamed.Name() != test.to {
					t.Fatalf("buffer name = %q; want %q", renamed.Name(), test.to)
				}
				if _, stillThere := store.Get(test.from); stillThere {
					t.Fatal("old name still resolves after rename")
				}
			}
		})
	}
}

func TestRenameClearsRequiresName(t *testing.T) {
	store := NewStore()
	store.OpenUntitled("untitled-1")

	if !store.Rename("untitled-1", "notes") {
		t.Fatal("rename failed")
	}
	renamed, _ := store.Get("notes")
	if renamed.RequiresName() {
		t.Fatal("rename should clear the requires-name flag")
	}
}

func TestRemove(t *testing.T) {
	store := NewStore()
	store.Open("doomed")

	if !store.Remove("doomed") {
		t.Fatal("Remove should report true for an existing buffer")
	}
	if store.Remove("doomed") {
		t.Fatal("Remove should report false the second time")
	}
	if !store.IsEmpty() {
		t.Fatal("store should be empty after removal")
	}
}

func TestSaveInMemory(t *testing.T) {
	store := NewStore()
	store.Open("notes").Append("line")

	if !store.IsDirty("notes") {
		t.Fatal("buffer should be dirty after append")
	}
	if !store.SaveInMemory("notes") {
		t.Fatal("SaveInMemory should find the buffer")
	}
	if store.IsDirty("notes") {
		t.Fatal("SaveInMemory should clear the dirty flag")
	}
	if store.SaveInMemory("ghost") {
		t.Fatal("SaveInMemory on a missing buffer should report false")
	}
}

func TestSnapshotsSortedByName(t *testing.T) {
	store := NewStore()
	store.Open("zebra").Append("z")
	store.Open("alpha").Append("a")

	snapshots := store.Snapshots()
	if len(snapshots) != 2 {
		t.Fatalf("snapshot count = %d; want 2", len(snapshots))
	}
	if snapshots[0].Name != "alpha" || snapshots[1].Name != "zebra" {
		t.Fatalf("snapshot order = [%s, %s]; want [alpha, zebra]",
			snapshots[0].Name, snapshots[1].Name)
	}
}

func TestHydrateReplacesContents(t *testing.T) {
	store := NewStore()
	store.Open("stale")

	store.Hydrate([]Snapshot{
		{Name: "restored", Lines: []string{"one"}, IsOpen: true, Dirty: true},
		{Name: "closed", Lines: []string{"two"}},
	})

	if _, ok := store.Get("stale"); ok {
		t.Fatal("Hydrate should drop pre-existing buffers")
	}
	if got := store.OpenBuffers(); !reflect.DeepEqual(got, []string{"restored"}) {
		t.Fatalf("OpenBuffers = %q; want [restored]", got)
	}
	if !store.IsDirty("restored") {
		t.Fatal("dirty flag should survive hydration")
	}
}

func TestSharedSerializesAccess(t *testing.T) {
	shared := NewShared(NewStore())

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				shared.Do(func(store *Store) {
					store.Append("log", "entry")
				})
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	shared.Do(func(store *Store) {
		b, ok := store.Get("log")
		if !ok {
			t.Fatal("buffer missing")
		}
		if len(b.Lines()) != 800 {
			t.Fatalf("line count = %d; want 800", len(b.Lines()))
		}
	})
}
