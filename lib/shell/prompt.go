// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Prompt renders the interactive prompt: the working directory with
// the home directory abbreviated to ~, then an arrow colored by the
// last command's exit status. On terminals without color support the
// prompt degrades to plain text.
type Prompt struct {
	colored        bool
	directoryStyle lipgloss.Style
	successStyle   lipgloss.Style
	failureStyle   lipgloss.Style
}

// NewPrompt builds a prompt for the given theme name. Theme "plain"
// disables color unconditionally; any other name uses the default
// scheme when the terminal supports color.
func NewPrompt(theme string) *Prompt {
	colored := termenv.ColorProfile() != termenv.Ascii && theme != "plain"
	return &Prompt{
		colored:        colored,
		directoryStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		successStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		failureStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Render produces the prompt string for the given working directory
// and last exit status.
func (p *Prompt) Render(workingDirectory string, lastStatus int) string {
	directory := AbbreviateHome(workingDirectory)
	arrow := "❯"

	if !p.colored {
		return directory + " " + arrow + " "
	}

	arrowStyle := p.successStyle
	if lastStatus != 0 {
		arrowStyle = p.failureStyle
	}
	return p.directoryStyle.Render(directory) + " " + arrowStyle.Render(arrow) + " "
}

// AbbreviateHome replaces a home-directory prefix with ~.
func AbbreviateHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}
