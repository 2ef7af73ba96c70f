// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// runExternal launches a non-builtin command as a child process wired
// to the shell's terminal and returns its exit status. A command that
// cannot be found returns 127, matching POSIX shells.
func (s *Shell) runExternal(name string, arguments []string) int {
	command := exec.Command(name, arguments...)
	command.Stdin = os.Stdin
	command.Stdout = s.stdout
	command.Stderr = s.stderr

	err := command.Run()
	if err == nil {
		return 0
	}

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return exitError.ExitCode()
	}
	if errors.Is(err, exec.ErrNotFound) {
		fmt.Fprintf(s.stderr, "iridium: %s: command not found\n", name)
		return 127
	}
	fmt.Fprintf(s.stderr, "iridium: %s: %v\n", name, err)
	return 126
}
