// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iridium-shell/iridium/lib/buffer"
	"github.com/iridium-shell/iridium/lib/config"
	"github.com/iridium-shell/iridium/lib/persist"
)

// newTestShell builds a shell over a fresh store with persistence
// disabled, output captured, and the editor handoff stubbed out.
func newTestShell(t *testing.T) (*Shell, *strings.Builder, *strings.Builder) {
	t.Helper()

	// Builtins such as cd and pushd change the process working
	// directory; restore it so tests cannot leave later tests inside
	// a deleted temporary directory.
	if workingDirectory, err := os.Getwd(); err == nil {
		t.Cleanup(func() { _ = os.Chdir(workingDirectory) })
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := buffer.NewShared(buffer.NewStore())
	manager := persist.NewManager(&persist.Config{Enabled: false}, logger)

	s := New(store, manager, &config.Model{}, logger)
	var stdout, stderr strings.Builder
	s.stdout = &stdout
	s.stderr = &stderr
	s.history = NewHistory(filepath.Join(t.TempDir(), "history"))
	s.runSession = func(string) error { return nil }
	return s, &stdout, &stderr
}

func TestExecuteUnknownControlCommand(t *testing.T) {
	for _, line := range []string{":m something", ":p", ":nonsense"} {
		s, _, stderr := newTestShell(t)
		if status := s.Execute(line); status == 0 {
			t.Errorf("Execute(%q) = 0; want non-zero", line)
		}
		if !strings.Contains(stderr.String(), "unknown control command") {
			t.Errorf("Execute(%q) stderr = %q; want unknown-command report", line, stderr.String())
		}
	}
}

func TestExecuteSyntaxError(t *testing.T) {
	s, _, stderr := newTestShell(t)
	if status := s.Execute("echo 'unterminated"); status != 2 {
		t.Fatalf("status = %d; want 2", status)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected a syntax error report")
	}
}

func TestBufferCommandOpensBuffers(t *testing.T) {
	s, _, _ := newTestShell(t)

	var sessionBuffer string
	s.runSession = func(name string) error {
		sessionBuffer = name
		return nil
	}

	if status := s.Execute(":b alpha beta"); status != 0 {
		t.Fatalf("status = %d; want 0", status)
	}
	if sessionBuffer != "beta" {
		t.Fatalf("session buffer = %q; want the last name \"beta\"", sessionBuffer)
	}

	s.store.Do(func(store *buffer.Store) {
		for _, name := range []string{"alpha", "beta"} {
			if _, ok := store.Get(name); !ok {
				t.Errorf("buffer %q was not opened", name)
			}
		}
	})
}

func TestBufferCommandListOption(t *testing.T) {
	s, stdout, _ := newTestShell(t)

	if status := s.Execute(":b -l notes"); status != 0 {
		t.Fatalf("status = %d; want 0", status)
	}
	if !strings.Contains(stdout.String(), "notes") {
		t.Fatalf("stdout = %q; want buffer listing", stdout.String())
	}
}

func TestBufferCommandSaveOption(t *testing.T) {
	s, _, _ := newTestShell(t)

	path := filepath.Join(t.TempDir(), "saved-buffer")
	s.runSession = func(name string) error {
		s.store.Do(func(store *buffer.Store) {
			store.Append(name, "session content")
		})
		return nil
	}

	if status := s.Execute(":b -s " + path); status != 0 {
		t.Fatalf("status = %d; want 0", status)
	}

	s.store.Do(func(store *buffer.Store) {
		if store.IsDirty(path) {
			t.Error("buffer should be clean after -s saved it")
		}
	})
}

func TestBufferCommandRequiresName(t *testing.T) {
	s, _, stderr := newTestShell(t)
	if status := s.Execute(":b"); status == 0 {
		t.Fatal("bare :b should fail")
	}
	if stderr.Len() == 0 {
		t.Fatal("expected an error report")
	}
}

func TestBuiltinCdAndPwd(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	target := t.TempDir()

	if status := s.Execute("cd " + target); status != 0 {
		t.Fatalf("cd status = %d; want 0", status)
	}
	if status := s.Execute("pwd"); status != 0 {
		t.Fatalf("pwd status = %d; want 0", status)
	}
	// TempDir may sit behind a symlink (macOS); compare resolved paths.
	got := strings.TrimSpace(stdout.String())
	resolvedTarget, _ := filepath.EvalSymlinks(target)
	resolvedGot, _ := filepath.EvalSymlinks(got)
	if resolvedGot != resolvedTarget {
		t.Fatalf("pwd = %q; want %q", got, target)
	}
}

func TestBuiltinCdFailure(t *testing.T) {
	s, _, stderr := newTestShell(t)
	if status := s.Execute("cd /definitely/not/a/real/path"); status != 1 {
		t.Fatalf("status = %d; want 1", status)
	}
	if !strings.Contains(stderr.String(), "cd:") {
		t.Fatalf("stderr = %q; want cd error", stderr.String())
	}
}

func TestBuiltinPushdPopd(t *testing.T) {
	s, _, _ := newTestShell(t)
	start := t.TempDir()
	next := t.TempDir()

	if status := s.Execute("cd " + start); status != 0 {
		t.Fatalf("cd: status %d", status)
	}
	if status := s.Execute("pushd " + next); status != 0 {
		t.Fatalf("pushd: status %d", status)
	}
	if len(s.directoryStack) != 1 {
		t.Fatalf("stack depth = %d; want 1", len(s.directoryStack))
	}
	if status := s.Execute("popd"); status != 0 {
		t.Fatalf("popd: status %d", status)
	}
	if len(s.directoryStack) != 0 {
		t.Fatal("stack should be empty after popd")
	}
}

func TestBuiltinPopdEmptyStack(t *testing.T) {
	s, _, stderr := newTestShell(t)
	if status := s.Execute("popd"); status != 1 {
		t.Fatalf("status = %d; want 1", status)
	}
	if !strings.Contains(stderr.String(), "stack empty") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestBuiltinAlias(t *testing.T) {
	s, stdout, _ := newTestShell(t)

	if status := s.Execute("alias ll='pwd'"); status != 0 {
		t.Fatalf("alias definition: status %d", status)
	}
	if status := s.Execute("ll"); status != 0 {
		t.Fatalf("aliased command: status %d", status)
	}
	if stdout.Len() == 0 {
		t.Fatal("aliased pwd produced no output")
	}

	stdout.Reset()
	if status := s.Execute("alias ll"); status != 0 {
		t.Fatalf("alias query: status %d", status)
	}
	if !strings.Contains(stdout.String(), "alias ll='pwd'") {
		t.Fatalf("alias query output = %q", stdout.String())
	}
}

func TestBuiltinExit(t *testing.T) {
	s, _, _ := newTestShell(t)
	if status := s.Execute("exit 3"); status != 3 {
		t.Fatalf("status = %d; want 3", status)
	}
	if !s.quitting {
		t.Fatal("exit should set the quitting flag")
	}
}

func TestBuiltinTypeClassification(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	s.aliases.Set("ll", "ls -la")

	if status := s.Execute("type cd ll"); status != 0 {
		t.Fatalf("status = %d; want 0", status)
	}
	output := stdout.String()
	if !strings.Contains(output, "cd is a shell builtin") {
		t.Errorf("output = %q; want builtin classification", output)
	}
	if !strings.Contains(output, "ll is aliased to 'ls -la'") {
		t.Errorf("output = %q; want alias classification", output)
	}
}
