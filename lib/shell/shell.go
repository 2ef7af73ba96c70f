// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

// Package shell implements the interactive control loop: a prompt
// that reads command lines, expands aliases, dispatches builtins,
// launches external processes, and — through `:`-prefixed control
// commands — hands off to the embedded buffer editor.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/iridium-shell/iridium/lib/buffer"
	"github.com/iridium-shell/iridium/lib/config"
	"github.com/iridium-shell/iridium/lib/persist"
)

// Shell is the interactive control loop. It alternates between prompt
// mode (read a line, execute, print a new prompt) and buffer-session
// mode (the editor owns the terminal until the session ends).
type Shell struct {
	store   *buffer.Shared
	manager *persist.Manager
	config  *config.Model
	logger  *slog.Logger

	aliases *AliasRegistry
	history *History
	prompt  *Prompt

	directoryStack []string
	lastStatus     int
	quitting       bool

	input  *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	// runSession launches an editor session on the named buffer. It is
	// a field so tests can intercept the handoff.
	runSession func(name string) error
}

// New wires a shell over the shared store and persistence manager.
func New(store *buffer.Shared, manager *persist.Manager, model *config.Model, logger *slog.Logger) *Shell {
	s := &Shell{
		store:   store,
		manager: manager,
		config:  model,
		logger:  logger,
		aliases: NewAliasRegistry(),
		history: NewHistory(DefaultHistoryPath()),
		prompt:  NewPrompt(model.UI.PromptTheme),
		input:   bufio.NewReader(os.Stdin),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	s.runSession = s.defaultRunSession
	return s
}

// Run is the prompt loop. It returns when the user exits or stdin
// reaches end of file.
func (s *Shell) Run() error {
	s.printWelcome()

	for !s.quitting {
		workingDirectory, err := os.Getwd()
		if err != nil {
			workingDirectory = "?"
		}
		fmt.Fprint(s.stdout, s.prompt.Render(workingDirectory, s.lastStatus))

		line, err := s.input.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if strings.TrimSpace(line) == "" {
					fmt.Fprintln(s.stdout)
					return nil
				}
				// Execute the final unterminated line, then stop.
				s.quitting = true
			} else {
				return fmt.Errorf("reading command line: %w", err)
			}
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		s.lastStatus = s.Execute(trimmed)
		if err := s.history.Append(s.lastStatus, trimmed); err != nil {
			s.logger.Warn("could not record history entry", "error", err)
		}
	}
	return nil
}

// Execute runs one command line and returns its exit status. Lines
// beginning with `:` are control commands; everything else is
// tokenized, alias-expanded, and dispatched to a builtin or an
// external process.
func (s *Shell) Execute(line string) int {
	if strings.HasPrefix(line, ":") {
		return s.executeControl(line[1:])
	}

	tokens, err := Tokenize(line)
	if err != nil {
		fmt.Fprintf(s.stderr, "iridium: %v\n", err)
		return 2
	}
	if len(tokens) == 0 {
		return 0
	}

	tokens, err = s.aliases.Expand(tokens)
	if err != nil {
		fmt.Fprintf(s.stderr, "iridium: alias expansion: %v\n", err)
		return 2
	}
	if len(tokens) == 0 {
		return 0
	}

	if status, handled := s.runBuiltin(tokens[0], tokens[1:]); handled {
		return status
	}
	return s.runExternal(tokens[0], tokens[1:])
}

// executeControl dispatches a `:`-prefixed control command. Only the
// buffer command family is defined; anything else is reported as
// unknown.
func (s *Shell) executeControl(line string) int {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		fmt.Fprintln(s.stderr, "iridium: empty control command")
		return 1
	}

	switch tokens[0] {
	case "b":
		return s.runBufferCommand(tokens[1:])
	default:
		fmt.Fprintf(s.stderr, "iridium: unknown control command :%s\n", tokens[0])
		return 1
	}
}

// runBufferCommand opens the named buffers, runs an editor session on
// the last one, persists the store, and applies the post-session
// options.
func (s *Shell) runBufferCommand(arguments []string) int {
	command, err := ParseBufferCommand(arguments)
	if err != nil {
		fmt.Fprintf(s.stderr, "iridium: %v\n", err)
		return 1
	}

	s.store.Do(func(store *buffer.Store) {
		for _, name := range command.Names {
			store.Open(name)
		}
	})

	sessionName := command.Names[len(command.Names)-1]
	if err := s.runSession(sessionName); err != nil {
		fmt.Fprintf(s.stderr, "iridium: buffer session: %v\n", err)
		return 1
	}

	// The database reflects every session boundary, not just shell
	// exit, so a crash mid-shell loses at most the current session.
	if err := s.persistStore(); err != nil {
		s.logger.Warn("could not persist buffer database", "error", err)
	}

	status := 0
	if command.SaveDirty {
		s.store.Do(func(store *buffer.Store) {
			for _, name := range command.Names {
				if _, err := store.SaveIfDirty(name); err != nil {
					fmt.Fprintf(s.stderr, "iridium: saving buffer %s: %v\n", name, err)
					status = 1
				}
			}
		})
	}
	if command.List {
		s.store.Do(func(store *buffer.Store) {
			for _, name := range store.OpenBuffers() {
				marker := " "
				if store.IsDirty(name) {
					marker = "*"
				}
				fmt.Fprintf(s.stdout, "%s %s\n", marker, name)
			}
		})
	}
	return status
}

// persistStore snapshots the store and writes the buffer database.
func (s *Shell) persistStore() error {
	return s.store.DoErr(func(store *buffer.Store) error {
		return s.manager.StoreAll(store)
	})
}

// PersistOnExit writes the buffer database one final time. Called by
// the composition root after Run returns.
func (s *Shell) PersistOnExit() error {
	return s.persistStore()
}

func (s *Shell) printWelcome() {
	fmt.Fprintln(s.stdout, "iridium — type 'help' for commands, ':b <name>' to edit a buffer")
}
