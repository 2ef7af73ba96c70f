// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"bytes"
	"testing"
)

// appendLayer is a trivially invertible layer for order checks: encode
// appends its tag byte, decode strips it.
type appendLayer struct {
	tag  byte
	flag uint32
}

func (l *appendLayer) Encode(data []byte) ([]byte, error) {
	return append(append([]byte(nil), data...), l.tag), nil
}

func (l *appendLayer) Decode(data []byte) ([]byte, error) {
	return append([]byte(nil), data[:len(data)-1]...), nil
}

func (l *appendLayer) FlagBit() uint32 { return l.flag }

func TestPipelineOrderAndFlags(t *testing.T) {
	pipeline := NewPipeline()
	pipeline.Push(&appendLayer{tag: 'A', flag: 0x0010})
	pipeline.Push(&appendLayer{tag: 'B', flag: 0x0001})

	if flags := pipeline.Flags(); flags != 0x0011 {
		t.Fatalf("Flags = %#x; want 0x0011", flags)
	}

	encoded, err := pipeline.Encode([]byte("x"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(encoded, []byte("xAB")) {
		t.Fatalf("encoded = %q; want \"xAB\" (registration order)", encoded)
	}

	decoded, err := pipeline.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, []byte("x")) {
		t.Fatalf("decoded = %q; want \"x\"", decoded)
	}
}

func TestEmptyPipelineIsIdentity(t *testing.T) {
	pipeline := NewPipeline()
	if flags := pipeline.Flags(); flags != 0 {
		t.Fatalf("Flags = %#x; want 0", flags)
	}
	encoded, err := pipeline.Encode([]byte("payload"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(encoded, []byte("payload")) {
		t.Fatalf("encoded = %q; want unchanged payload", encoded)
	}
}
