// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iridium-shell/iridium/lib/buffer"
)

// keyMap binds the editor's non-rune keys.
type keyMap struct {
	Quit      key.Binding
	Escape    key.Binding
	Enter     key.Binding
	Backspace key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c")),
		Escape:    key.NewBinding(key.WithKeys("esc")),
		Enter:     key.NewBinding(key.WithKeys("enter")),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
		Up:        key.NewBinding(key.WithKeys("up")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Home:      key.NewBinding(key.WithKeys("home")),
		End:       key.NewBinding(key.WithKeys("end")),
		PageUp:    key.NewBinding(key.WithKeys("pgup")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown")),
	}
}

// autoSaveMsg fires on the auto-save cadence.
type autoSaveMsg struct{}

// model is the Bubble Tea model of one editor session.
type model struct {
	store   *buffer.Shared
	name    string
	options Options

	mode Mode
	row  int
	col  int

	// offset is the first visible buffer row.
	offset int

	width  int
	height int

	commandActive bool
	command       textinput.Model

	status string
	keys   keyMap
}

func newModel(store *buffer.Shared, name string, options Options) model {
	command := textinput.New()
	command.Prompt = ":"
	command.CharLimit = 128

	return model{
		store:   store,
		name:    name,
		options: options,
		mode:    options.DefaultMode,
		command: command,
		keys:    defaultKeyMap(),
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd {
	return m.autoSaveTick()
}

func (m model) autoSaveTick() tea.Cmd {
	if m.options.AutoSaveInterval <= 0 {
		return nil
	}
	return tea.Tick(m.options.AutoSaveInterval, func(time.Time) tea.Msg {
		return autoSaveMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		return m, nil

	case autoSaveMsg:
		if m.options.Persist != nil {
			if err := m.options.Persist(); err != nil {
				m.status = fmt.Sprintf("auto-save failed: %v", err)
			}
		}
		return m, m.autoSaveTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.commandActive {
		return m.handleCommandLine(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeCommand
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1, 0), nil
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1, 0), nil
	case key.Matches(msg, m.keys.Left):
		return m.moveCursor(0, -1), nil
	case key.Matches(msg, m.keys.Right):
		return m.moveCursor(0, 1), nil
	case key.Matches(msg, m.keys.Home):
		m.col = 0
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.col = m.lineWidth(m.row)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		return m.moveCursor(-m.pageSize(), 0), nil
	case key.Matches(msg, m.keys.PageDown):
		return m.moveCursor(m.pageSize(), 0), nil
	}

	if m.mode == ModeInsert {
		return m.handleInsertKey(msg)
	}
	return m.handleCommandKey(msg)
}

func (m model) handleInsertKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		m.store.Do(func(store *buffer.Store) {
			m.row, m.col = store.InsertNewline(m.name, m.row, m.col)
		})
		m.ensureVisible()
		return m, nil

	case key.Matches(msg, m.keys.Backspace):
		m.store.Do(func(store *buffer.Store) {
			if row, col, ok := store.DeleteChar(m.name, m.row, m.col); ok {
				m.row, m.col = row, col
			}
		})
		m.ensureVisible()
		return m, nil
	}

	if msg.Type == tea.KeyRunes && !msg.Alt {
		m.store.Do(func(store *buffer.Store) {
			for _, r := range msg.Runes {
				store.InsertChar(m.name, m.row, m.col, r)
				m.col++
			}
		})
		return m, nil
	}
	return m, nil
}

func (m model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return m, nil
	}
	switch msg.Runes[0] {
	case ':':
		m.commandActive = true
		m.command.SetValue("")
		m.command.Focus()
		return m, textinput.Blink
	case 'i':
		m.mode = ModeInsert
		m.status = ""
		return m, nil
	}
	return m, nil
}

func (m model) handleCommandLine(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.commandActive = false
		m.command.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		line := m.command.Value()
		m.commandActive = false
		m.command.Blur()
		return m.executeColonCommand(line)
	}

	var cmd tea.Cmd
	m.command, cmd = m.command.Update(msg)
	return m, cmd
}

// executeColonCommand dispatches a colon command entered on the
// command line.
func (m model) executeColonCommand(line string) (tea.Model, tea.Cmd) {
	switch strings.TrimSpace(line) {
	case "":
		return m, nil

	case "w", "show":
		if err := m.store.DoErr(func(store *buffer.Store) error {
			return store.Save(m.name)
		}); err != nil {
			m.status = fmt.Sprintf("write failed: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("%q written", m.name)
		return m, nil

	case "clear":
		m.store.Do(func(store *buffer.Store) {
			store.Open(m.name).Clear()
		})
		m.row, m.col, m.offset = 0, 0, 0
		m.status = "buffer cleared"
		return m, nil

	case "ls":
		var names []string
		m.store.Do(func(store *buffer.Store) {
			names = store.OpenBuffers()
		})
		m.status = "open: " + strings.Join(names, ", ")
		return m, nil

	case "q":
		return m, tea.Quit

	case "wq":
		if err := m.store.DoErr(func(store *buffer.Store) error {
			return store.Save(m.name)
		}); err != nil {
			m.status = fmt.Sprintf("write failed: %v", err)
			return m, nil
		}
		return m, tea.Quit

	case "i":
		m.mode = ModeInsert
		m.status = ""
		return m, nil

	case "esc":
		m.mode = ModeCommand
		return m, nil

	default:
		m.status = fmt.Sprintf("unknown command: %s", strings.TrimSpace(line))
		return m, nil
	}
}

// moveCursor shifts the cursor by rows/cols, clamping to the buffer
// contents, and scrolls the viewport to keep the cursor visible.
func (m model) moveCursor(rowDelta, colDelta int) model {
	lines := m.lines()

	m.row += rowDelta
	if m.row < 0 {
		m.row = 0
	}
	if maxRow := len(lines) - 1; maxRow >= 0 && m.row > maxRow {
		m.row = maxRow
	}
	if len(lines) == 0 {
		m.row = 0
	}

	width := 0
	if m.row < len(lines) {
		width = len([]rune(lines[m.row]))
	}
	m.col += colDelta
	if m.col < 0 {
		m.col = 0
	}
	if m.col > width {
		m.col = width
	}

	m.ensureVisible()
	return m
}

// ensureVisible scrolls the viewport so the cursor row is on screen.
func (m *model) ensureVisible() {
	visible := m.pageSize()
	if visible < 1 {
		visible = 1
	}
	if m.row < m.offset {
		m.offset = m.row
	}
	if m.row >= m.offset+visible {
		m.offset = m.row - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// pageSize is the number of buffer rows on screen: total height minus
// the status bar and the command line.
func (m model) pageSize() int {
	return m.height - 2
}

// lines copies the buffer's lines under the store lock so the view
// never reads a slice another goroutine is appending to.
func (m model) lines() []string {
	var lines []string
	m.store.Do(func(store *buffer.Store) {
		if b, ok := store.Get(m.name); ok {
			lines = append([]string(nil), b.Lines()...)
		}
	})
	return lines
}

func (m model) lineWidth(row int) int {
	lines := m.lines()
	if row < 0 || row >= len(lines) {
		return 0
	}
	return len([]rune(lines[row]))
}
