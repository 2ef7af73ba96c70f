// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle = lipgloss.NewStyle().Reverse(true)
	fringeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
)

// View renders the visible buffer rows, a tilde fringe below the
// content, the status bar, and the command line.
func (m model) View() string {
	lines := m.lines()
	visible := m.pageSize()
	if visible < 1 {
		visible = 1
	}

	var screen strings.Builder
	for i := 0; i < visible; i++ {
		row := m.offset + i
		switch {
		case row < len(lines):
			screen.WriteString(m.renderLine(lines[row], row))
		case row == 0 && len(lines) == 0:
			// An empty buffer still shows the cursor on row zero.
			screen.WriteString(m.renderLine("", row))
		default:
			screen.WriteString(fringeStyle.Render("~"))
		}
		screen.WriteByte('\n')
	}

	screen.WriteString(m.renderStatusBar())
	screen.WriteByte('\n')
	screen.WriteString(m.renderCommandLine())
	return screen.String()
}

// renderLine draws one buffer row, inverting the cursor cell when the
// cursor sits on this row. A cursor past the end of the line is drawn
// on a trailing space.
func (m model) renderLine(line string, row int) string {
	if row != m.row || m.commandActive {
		return line
	}

	runes := []rune(line)
	col := m.col
	if col > len(runes) {
		col = len(runes)
	}

	before := string(runes[:col])
	cell := " "
	after := ""
	if col < len(runes) {
		cell = string(runes[col])
		after = string(runes[col+1:])
	}
	return before + cursorStyle.Render(cell) + after
}

func (m model) renderStatusBar() string {
	left := fmt.Sprintf("[buffer:%s] -- %s --", m.name, m.mode)
	if m.status != "" {
		left += "  " + m.status
	}
	if padding := m.width - lipgloss.Width(left); padding > 0 {
		left += strings.Repeat(" ", padding)
	}
	return statusBarStyle.Render(left)
}

func (m model) renderCommandLine() string {
	if m.commandActive {
		return m.command.View()
	}
	return ""
}
