// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
)

// ReadHex decodes hex-encoded key material (whitespace ignored) into a
// protected buffer and zeros every intermediate copy. The input string
// itself cannot be zeroed (Go strings are immutable); callers should
// source it from the environment or a file rather than long-lived
// program state.
func ReadHex(input string) (*Buffer, error) {
	compact := make([]byte, 0, len(input))
	for _, c := range []byte(input) {
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		compact = append(compact, c)
	}

	decoded := make([]byte, hex.DecodedLen(len(compact)))
	n, err := hex.Decode(decoded, compact)
	Zero(compact)
	if err != nil {
		Zero(decoded)
		return nil, fmt.Errorf("decoding hex key material: %w", err)
	}

	// NewFromBytes zeros decoded after copying.
	return NewFromBytes(decoded[:n])
}

// ReadHexFile reads hex-encoded key material from a file, trimming
// surrounding whitespace, and stores it in a protected buffer.
func ReadHexFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	buffer, err := ReadHex(string(trimmed))
	Zero(data)
	return buffer, err
}
