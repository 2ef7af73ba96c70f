// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestReadHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{name: "plain", input: "deadbeef", want: []byte{0xde, 0xad, 0xbe, 0xef}},
		{name: "uppercase", input: "DEADBEEF", want: []byte{0xde, 0xad, 0xbe, 0xef}},
		{name: "embedded whitespace", input: "de ad\tbe\nef", want: []byte{0xde, 0xad, 0xbe, 0xef}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buffer, err := ReadHex(test.input)
			if err != nil {
				t.Fatalf("ReadHex: %v", err)
			}
			defer buffer.Close()

			if !bytes.Equal(buffer.Bytes(), test.want) {
				t.Fatalf("decoded = %x; want %x", buffer.Bytes(), test.want)
			}
		})
	}
}

func TestReadHexRejectsGarbage(t *testing.T) {
	for _, input := range []string{"zzzz", "abc", ""} {
		if _, err := ReadHex(input); err == nil {
			t.Errorf("ReadHex(%q) succeeded; want error", input)
		}
	}
}

func TestReadHexFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.hex")
	if err := os.WriteFile(path, []byte("  cafef00d\n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	buffer, err := ReadHexFile(path)
	if err != nil {
		t.Fatalf("ReadHexFile: %v", err)
	}
	defer buffer.Close()

	if !bytes.Equal(buffer.Bytes(), []byte{0xca, 0xfe, 0xf0, 0x0d}) {
		t.Fatalf("decoded = %x; want cafef00d", buffer.Bytes())
	}
}

func TestReadHexFileMissing(t *testing.T) {
	if _, err := ReadHexFile(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("ReadHexFile of a missing file should fail")
	}
}
