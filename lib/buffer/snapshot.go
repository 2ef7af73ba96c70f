// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package buffer

// Snapshot is the serializable projection of a Buffer and the only
// shape that crosses the persistence boundary. It is a plain value
// type with no behavior.
type Snapshot struct {
	Name         string
	Lines        []string
	RequiresName bool
	IsOpen       bool
	Dirty        bool
}
