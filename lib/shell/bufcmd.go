// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import "fmt"

// BufferCommand is a parsed `:b` control command. Options apply after
// the editor session over the named buffers ends.
type BufferCommand struct {
	// Names are the buffers to open. The editor session runs on the
	// last one.
	Names []string

	// List prints the open buffers after the session.
	List bool

	// SaveDirty writes each named buffer to disk after the session if
	// it is still dirty.
	SaveDirty bool
}

// ParseBufferCommand parses the arguments of `:b [options] <names...>`.
// Options: -l (list buffers after the session), -s (save dirty named
// buffers to disk after the session). Options and names may be
// interleaved; at least one name is required.
func ParseBufferCommand(arguments []string) (BufferCommand, error) {
	var command BufferCommand
	for _, argument := range arguments {
		switch argument {
		case "-l":
			command.List = true
		case "-s":
			command.SaveDirty = true
		default:
			if len(argument) > 0 && argument[0] == '-' {
				return BufferCommand{}, fmt.Errorf("unknown buffer command option %q", argument)
			}
			command.Names = append(command.Names, argument)
		}
	}
	if len(command.Names) == 0 {
		return BufferCommand{}, fmt.Errorf("buffer command requires at least one buffer name")
	}
	return command, nil
}
