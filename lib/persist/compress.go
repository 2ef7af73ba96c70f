// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionAlgorithm identifies the compression codec of the
// pipeline's compression layer. The flag bit is recorded in the file
// header — these values are format constants and changing them breaks
// compatibility with existing buffer databases.
type CompressionAlgorithm uint8

const (
	// CompressionLZ4 is the default: LZ4 frame format. Fast decode,
	// modest ratio, and the frame container carries its own length
	// and checksum framing for streaming decode.
	CompressionLZ4 CompressionAlgorithm = iota

	// CompressionZstd trades CPU for a better ratio on text-heavy
	// buffer sets.
	CompressionZstd
)

// DefaultCompression is used when no algorithm is configured or when
// an unknown name falls back.
const DefaultCompression = CompressionLZ4

// String returns the configuration name of the algorithm.
func (a CompressionAlgorithm) String() string {
	switch a {
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// FlagBit returns the algorithm's bit in the header flags word.
func (a CompressionAlgorithm) FlagBit() uint32 {
	switch a {
	case CompressionZstd:
		return 0x0020
	default:
		return 0x0010
	}
}

// ParseCompressionAlgorithm resolves a configuration name. Matching
// is case-insensitive after trimming.
func ParseCompressionAlgorithm(name string) (CompressionAlgorithm, bool) {
	switch normalizeName(name) {
	case "lz4", "default":
		return CompressionLZ4, true
	case "zstd":
		return CompressionZstd, true
	default:
		return DefaultCompression, false
	}
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("persist: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("persist: zstd decoder initialization failed: " + err.Error())
	}
}

// CompressionLayer is the pipeline stage that compresses the domain
// payload. It is registered before the encryption layer: compressing
// plaintext maximizes the ratio and avoids burning cycles on
// near-random ciphertext.
type CompressionLayer struct {
	algorithm CompressionAlgorithm
}

// NewCompressionLayer creates a layer for the given algorithm.
func NewCompressionLayer(algorithm CompressionAlgorithm) *CompressionLayer {
	return &CompressionLayer{algorithm: algorithm}
}

// Algorithm returns the configured codec.
func (l *CompressionLayer) Algorithm() CompressionAlgorithm { return l.algorithm }

// FlagBit returns the codec's header flag bit.
func (l *CompressionLayer) FlagBit() uint32 { return l.algorithm.FlagBit() }

// Encode compresses data.
func (l *CompressionLayer) Encode(data []byte) ([]byte, error) {
	switch l.algorithm {
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	default:
		var compressed bytes.Buffer
		writer := lz4.NewWriter(&compressed)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: finishing frame: %w", err)
		}
		return compressed.Bytes(), nil
	}
}

// Decode decompresses data. A corrupt frame surfaces as a wrapped
// codec error.
func (l *CompressionLayer) Decode(data []byte) ([]byte, error) {
	switch l.algorithm {
	case CompressionZstd:
		decompressed, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return decompressed, nil
	default:
		reader := lz4.NewReader(bytes.NewReader(data))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return decompressed, nil
	}
}
