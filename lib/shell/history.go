// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// historyLimit caps what the history builtin prints.
const historyLimit = 1000

// HistoryEntry is one executed command line.
type HistoryEntry struct {
	Timestamp time.Time
	Status    int
	Line      string
}

// History appends executed command lines to a flat file, one entry per
// line in the form `timestamp:status:line` with a Unix-second
// timestamp. The file is opened per append so concurrent shells only
// interleave, never corrupt, each other's entries.
type History struct {
	path string
}

// NewHistory creates a history backed by the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// DefaultHistoryPath returns ~/.iridium_history.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".iridium_history"
	}
	return home + string(os.PathSeparator) + ".iridium_history"
}

// Append records one executed line with its exit status. Newlines in
// the line would corrupt the one-entry-per-line format and are
// replaced with spaces.
func (h *History) Append(status int, line string) error {
	line = strings.ReplaceAll(line, "\n", " ")
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}
	defer file.Close()

	entry := fmt.Sprintf("%d:%d:%s\n", time.Now().Unix(), status, line)
	if _, err := file.WriteString(entry); err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent entries, oldest first. A
// missing history file yields an empty slice. Malformed lines are
// skipped.
func (h *History) Recent(limit int) ([]HistoryEntry, error) {
	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []HistoryEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		entry, ok := parseHistoryLine(scanner.Text())
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func parseHistoryLine(raw string) (HistoryEntry, bool) {
	first := strings.IndexByte(raw, ':')
	if first < 0 {
		return HistoryEntry{}, false
	}
	second := strings.IndexByte(raw[first+1:], ':')
	if second < 0 {
		return HistoryEntry{}, false
	}
	second += first + 1

	seconds, err := strconv.ParseInt(raw[:first], 10, 64)
	if err != nil {
		return HistoryEntry{}, false
	}
	status, err := strconv.Atoi(raw[first+1 : second])
	if err != nil {
		return HistoryEntry{}, false
	}
	return HistoryEntry{
		Timestamp: time.Unix(seconds, 0),
		Status:    status,
		Line:      raw[second+1:],
	}, true
}
