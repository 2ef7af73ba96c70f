// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// builtinNames lists every builtin for `which`, `type`, and `help`.
var builtinNames = []string{
	"alias", "cd", "exit", "help", "history",
	"popd", "pushd", "pwd", "type", "welcome", "which",
}

func isBuiltin(name string) bool {
	for _, builtin := range builtinNames {
		if builtin == name {
			return true
		}
	}
	return false
}

// runBuiltin executes a builtin. The second return value reports
// whether name is a builtin at all.
func (s *Shell) runBuiltin(name string, arguments []string) (int, bool) {
	switch name {
	case "cd":
		return s.builtinCd(arguments), true
	case "pwd":
		return s.builtinPwd(), true
	case "pushd":
		return s.builtinPushd(arguments), true
	case "popd":
		return s.builtinPopd(), true
	case "alias":
		return s.builtinAlias(arguments), true
	case "history":
		return s.builtinHistory(), true
	case "which":
		return s.builtinWhich(arguments), true
	case "type":
		return s.builtinType(arguments), true
	case "help":
		return s.builtinHelp(), true
	case "welcome":
		s.printWelcome()
		return 0, true
	case "exit":
		return s.builtinExit(arguments), true
	default:
		return 0, false
	}
}

func (s *Shell) builtinCd(arguments []string) int {
	target := ""
	if len(arguments) > 0 {
		target = arguments[0]
	}
	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(s.stderr, "cd: %v\n", err)
			return 1
		}
		target = home
	}
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(s.stderr, "cd: %v\n", err)
		return 1
	}
	return 0
}

func (s *Shell) builtinPwd() int {
	workingDirectory, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.stderr, "pwd: %v\n", err)
		return 1
	}
	fmt.Fprintln(s.stdout, workingDirectory)
	return 0
}

func (s *Shell) builtinPushd(arguments []string) int {
	if len(arguments) == 0 {
		fmt.Fprintln(s.stderr, "pushd: directory required")
		return 1
	}
	previous, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.stderr, "pushd: %v\n", err)
		return 1
	}
	if err := os.Chdir(arguments[0]); err != nil {
		fmt.Fprintf(s.stderr, "pushd: %v\n", err)
		return 1
	}
	s.directoryStack = append(s.directoryStack, previous)
	return s.builtinPwd()
}

func (s *Shell) builtinPopd() int {
	if len(s.directoryStack) == 0 {
		fmt.Fprintln(s.stderr, "popd: directory stack empty")
		return 1
	}
	top := s.directoryStack[len(s.directoryStack)-1]
	if err := os.Chdir(top); err != nil {
		fmt.Fprintf(s.stderr, "popd: %v\n", err)
		return 1
	}
	s.directoryStack = s.directoryStack[:len(s.directoryStack)-1]
	return s.builtinPwd()
}

func (s *Shell) builtinAlias(arguments []string) int {
	if len(arguments) == 0 {
		for _, name := range s.aliases.Names() {
			value, _ := s.aliases.Get(name)
			fmt.Fprintf(s.stdout, "alias %s='%s'\n", name, value)
		}
		return 0
	}

	status := 0
	for _, argument := range arguments {
		if name, value, ok := ParseAliasDefinition(argument); ok {
			s.aliases.Set(name, value)
			continue
		}
		if value, ok := s.aliases.Get(argument); ok {
			fmt.Fprintf(s.stdout, "alias %s='%s'\n", argument, value)
		} else {
			fmt.Fprintf(s.stderr, "alias: %s: not found\n", argument)
			status = 1
		}
	}
	return status
}

func (s *Shell) builtinHistory() int {
	entries, err := s.history.Recent(historyLimit)
	if err != nil {
		fmt.Fprintf(s.stderr, "history: %v\n", err)
		return 1
	}
	for index, entry := range entries {
		fmt.Fprintf(s.stdout, "%5d  %s  %s\n",
			index+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Line)
	}
	return 0
}

func (s *Shell) builtinWhich(arguments []string) int {
	status := 0
	for _, name := range arguments {
		if isBuiltin(name) {
			fmt.Fprintf(s.stdout, "%s: shell builtin\n", name)
			continue
		}
		path, err := exec.LookPath(name)
		if err != nil {
			fmt.Fprintf(s.stderr, "which: %s: not found\n", name)
			status = 1
			continue
		}
		fmt.Fprintln(s.stdout, path)
	}
	return status
}

func (s *Shell) builtinType(arguments []string) int {
	status := 0
	for _, name := range arguments {
		switch {
		case isBuiltin(name):
			fmt.Fprintf(s.stdout, "%s is a shell builtin\n", name)
		default:
			if value, ok := s.aliases.Get(name); ok {
				fmt.Fprintf(s.stdout, "%s is aliased to '%s'\n", name, value)
				continue
			}
			path, err := exec.LookPath(name)
			if err != nil {
				fmt.Fprintf(s.stderr, "type: %s: not found\n", name)
				status = 1
				continue
			}
			fmt.Fprintf(s.stdout, "%s is %s\n", name, path)
		}
	}
	return status
}

func (s *Shell) builtinHelp() int {
	fmt.Fprintln(s.stdout, "builtins:")
	for _, name := range builtinNames {
		fmt.Fprintf(s.stdout, "  %s\n", name)
	}
	fmt.Fprintln(s.stdout, "control commands:")
	fmt.Fprintln(s.stdout, "  :b [-l] [-s] <names...>   edit buffers (-l list after, -s save dirty)")
	return 0
}

func (s *Shell) builtinExit(arguments []string) int {
	status := s.lastStatus
	if len(arguments) > 0 {
		parsed, err := strconv.Atoi(arguments[0])
		if err != nil {
			fmt.Fprintf(s.stderr, "exit: %s: numeric argument required\n", arguments[0])
			status = 2
		} else {
			status = parsed
		}
	}
	s.quitting = true
	return status
}
