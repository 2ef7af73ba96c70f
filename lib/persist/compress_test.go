// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressionRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 200))

	for _, algorithm := range []CompressionAlgorithm{CompressionLZ4, CompressionZstd} {
		t.Run(algorithm.String(), func(t *testing.T) {
			layer := NewCompressionLayer(algorithm)

			compressed, err := layer.Encode(payload)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if len(compressed) >= len(payload) {
				t.Errorf("compressed %d bytes to %d; expected a reduction on repetitive text",
					len(payload), len(compressed))
			}

			decompressed, err := layer.Decode(compressed)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(decompressed, payload) {
				t.Fatal("round trip did not reproduce the payload")
			}
		})
	}
}

func TestCompressionEmptyPayload(t *testing.T) {
	for _, algorithm := range []CompressionAlgorithm{CompressionLZ4, CompressionZstd} {
		t.Run(algorithm.String(), func(t *testing.T) {
			layer := NewCompressionLayer(algorithm)
			compressed, err := layer.Encode(nil)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			decompressed, err := layer.Decode(compressed)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(decompressed) != 0 {
				t.Fatalf("decoded %d bytes; want 0", len(decompressed))
			}
		})
	}
}

func TestCompressionCorruptFrame(t *testing.T) {
	for _, algorithm := range []CompressionAlgorithm{CompressionLZ4, CompressionZstd} {
		t.Run(algorithm.String(), func(t *testing.T) {
			layer := NewCompressionLayer(algorithm)
			if _, err := layer.Decode([]byte("definitely not a valid frame")); err == nil {
				t.Fatal("decoding garbage should fail")
			}
		})
	}
}

func TestParseCompressionAlgorithm(t *testing.T) {
	tests := []struct {
		input string
		want  CompressionAlgorithm
		ok    bool
	}{
		{"lz4", CompressionLZ4, true},
		{"LZ4", CompressionLZ4, true},
		{"default", CompressionLZ4, true},
		{"zstd", CompressionZstd, true},
		{" zstd ", CompressionZstd, true},
		{"gzip", DefaultCompression, false},
		{"", DefaultCompression, false},
	}

	for _, test := range tests {
		got, ok := ParseCompressionAlgorithm(test.input)
		if got != test.want || ok != test.ok {
			t.Errorf("ParseCompressionAlgorithm(%q) = %v, %v; want %v, %v",
				test.input, got, ok, test.want, test.ok)
		}
	}
}

func TestCompressionFlagBits(t *testing.T) {
	if flag := CompressionLZ4.FlagBit(); flag != 0x0010 {
		t.Errorf("lz4 flag = %#x; want 0x0010", flag)
	}
	if flag := CompressionZstd.FlagBit(); flag != 0x0020 {
		t.Errorf("zstd flag = %#x; want 0x0020", flag)
	}
}
