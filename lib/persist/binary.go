// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/iridium-shell/iridium/lib/buffer"
)

// File format constants. The header is 32 bytes, little-endian:
//
//	offset  size  field
//	0       8     magic "IRDBUF\0\0"
//	8       4     format version (1)
//	12      4     pipeline flags
//	16      8     reserved (zero)
//	24      8     buffer count
//
// The pipeline-transformed domain payload follows immediately.
var fileMagic = [8]byte{'I', 'R', 'D', 'B', 'U', 'F', 0, 0}

const (
	formatVersion = 1
	headerSize    = 32
)

// Per-line byte payloads are zero-padded to the next multiple of 8.
// The padding has no semantic effect; it is kept so files written by
// every version of the format stay byte-identical under version 1.
func paddingLen(n int) int {
	return (8 - n%8) % 8
}

var zeroPadding [8]byte

// Load reads and decodes the buffer database at path. A missing file
// is the first-run case and returns an empty slice, not an error.
// The header is validated — magic, then version, then pipeline flags —
// before any payload byte is interpreted.
func Load(path string, pipeline *Pipeline) ([]buffer.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	header, err := readHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if header.magic != fileMagic {
		return nil, ErrInvalidMagic
	}
	if header.version != formatVersion {
		return nil, &UnsupportedVersionError{Version: header.version}
	}
	if header.flags != pipeline.Flags() {
		return nil, &UnsupportedFlagsError{Flags: header.flags}
	}

	decoded, err := pipeline.Decode(data[headerSize:])
	if err != nil {
		return nil, err
	}

	if header.bufferCount > math.MaxInt32 {
		return nil, &OverflowError{Field: "buffer count"}
	}
	count := int(header.bufferCount)

	reader := bytes.NewReader(decoded)
	snapshots := make([]buffer.Snapshot, 0, count)
	for i := 0; i < count; i++ {
		snapshot, err := readBufferRecord(reader)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// Store encodes all snapshots into the domain payload, runs it through
// the pipeline, and commits header+payload atomically: the bytes are
// written to a sibling temporary file, flushed and synced, then
// renamed over the destination. A crash at any point leaves either the
// previous complete database or the new one — never a torn file.
func Store(path string, pipeline *Pipeline, snapshots []buffer.Snapshot) error {
	if parent := filepath.Dir(path); parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("creating buffer database directory: %w", err)
		}
	}

	payload, err := encodeSnapshots(snapshots)
	if err != nil {
		return err
	}
	transformed, err := pipeline.Encode(payload)
	if err != nil {
		return err
	}

	var content bytes.Buffer
	writeHeader(&content, fileHeader{
		magic:       fileMagic,
		version:     formatVersion,
		flags:       pipeline.Flags(),
		bufferCount: uint64(len(snapshots)),
	})
	content.Write(transformed)

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating temporary buffer database: %w", err)
	}

	// Write, sync, close — in that order. On any failure, remove the
	// temporary file and report the first error.
	if _, err := file.Write(content.Bytes()); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary buffer database: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary buffer database: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary buffer database: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming buffer database into place: %w", err)
	}

	// Sync the parent directory so the rename survives power loss
	// between the rename and the OS flushing directory metadata.
	if parentDirectory, err := os.Open(filepath.Dir(path)); err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

type fileHeader struct {
	magic       [8]byte
	version     uint32
	flags       uint32
	reserved    uint64
	bufferCount uint64
}

func readHeader(r io.Reader) (fileHeader, error) {
	var raw [headerSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return fileHeader{}, &CorruptPayloadError{Detail: "file shorter than header"}
	}

	var header fileHeader
	copy(header.magic[:], raw[0:8])
	header.version = binary.LittleEndian.Uint32(raw[8:12])
	header.flags = binary.LittleEndian.Uint32(raw[12:16])
	header.reserved = binary.LittleEndian.Uint64(raw[16:24])
	header.bufferCount = binary.LittleEndian.Uint64(raw[24:32])
	return header, nil
}

func writeHeader(w *bytes.Buffer, header fileHeader) {
	var raw [headerSize]byte
	copy(raw[0:8], header.magic[:])
	binary.LittleEndian.PutUint32(raw[8:12], header.version)
	binary.LittleEndian.PutUint32(raw[12:16], header.flags)
	binary.LittleEndian.PutUint64(raw[16:24], header.reserved)
	binary.LittleEndian.PutUint64(raw[24:32], header.bufferCount)
	w.Write(raw[:])
}

// encodeSnapshots serializes every snapshot into the flat domain
// payload handed to the pipeline.
//
// Per-buffer record: u32 name length, u32 line count, four flag bytes
// (requiresName, isOpen, dirty, reserved), u32 padding, raw name
// bytes, then the line records. Per-line record: u32 byte length,
// u32 reserved, raw bytes, zero padding to the next multiple of 8.
func encodeSnapshots(snapshots []buffer.Snapshot) ([]byte, error) {
	var payload bytes.Buffer
	for _, snapshot := range snapshots {
		if err := writeBufferRecord(&payload, snapshot); err != nil {
			return nil, err
		}
	}
	return payload.Bytes(), nil
}

func writeBufferRecord(w *bytes.Buffer, snapshot buffer.Snapshot) error {
	nameBytes := []byte(snapshot.Name)
	if uint64(len(nameBytes)) > math.MaxUint32 {
		return &OverflowError{Field: "buffer name length"}
	}
	if uint64(len(snapshot.Lines)) > math.MaxUint32 {
		return &OverflowError{Field: "line count"}
	}

	writeUint32(w, uint32(len(nameBytes)))
	writeUint32(w, uint32(len(snapshot.Lines)))
	w.Write([]byte{
		boolByte(snapshot.RequiresName),
		boolByte(snapshot.IsOpen),
		boolByte(snapshot.Dirty),
		0,
	})
	writeUint32(w, 0) // record padding
	w.Write(nameBytes)

	for _, line := range snapshot.Lines {
		if err := writeLineRecord(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeLineRecord(w *bytes.Buffer, line string) error {
	lineBytes := []byte(line)
	if uint64(len(lineBytes)) > math.MaxUint32 {
		return &OverflowError{Field: "line length"}
	}
	writeUint32(w, uint32(len(lineBytes)))
	writeUint32(w, 0) // reserved
	w.Write(lineBytes)
	w.Write(zeroPadding[:paddingLen(len(lineBytes))])
	return nil
}

func readBufferRecord(r *bytes.Reader) (buffer.Snapshot, error) {
	nameLen, err := readUint32(r, "buffer name length")
	if err != nil {
		return buffer.Snapshot{}, err
	}
	lineCount, err := readUint32(r, "line count")
	if err != nil {
		return buffer.Snapshot{}, err
	}

	var flags [4]byte
	if _, err := io.ReadFull(r, flags[:]); err != nil {
		return buffer.Snapshot{}, &CorruptPayloadError{Detail: "truncated buffer flags"}
	}
	if _, err := readUint32(r, "record padding"); err != nil {
		return buffer.Snapshot{}, err
	}

	name, err := readText(r, int(nameLen), "buffer name")
	if err != nil {
		return buffer.Snapshot{}, err
	}

	lines := make([]string, 0, lineCount)
	for i := uint32(0); i < lineCount; i++ {
		line, err := readLineRecord(r)
		if err != nil {
			return buffer.Snapshot{}, err
		}
		lines = append(lines, line)
	}

	return buffer.Snapshot{
		Name:         name,
		Lines:        lines,
		RequiresName: flags[0] != 0,
		IsOpen:       flags[1] != 0,
		Dirty:        flags[2] != 0,
	}, nil
}

func readLineRecord(r *bytes.Reader) (string, error) {
	lineLen, err := readUint32(r, "line length")
	if err != nil {
		return "", err
	}
	if _, err := readUint32(r, "line reserved field"); err != nil {
		return "", err
	}

	line, err := readText(r, int(lineLen), "line")
	if err != nil {
		return "", err
	}

	if padding := paddingLen(int(lineLen)); padding > 0 {
		var sink [8]byte
		if _, err := io.ReadFull(r, sink[:padding]); err != nil {
			return "", &CorruptPayloadError{Detail: "truncated line padding"}
		}
	}
	return line, nil
}

func readText(r *bytes.Reader, length int, field string) (string, error) {
	if length < 0 {
		return "", &OverflowError{Field: field}
	}
	if length > r.Len() {
		return "", &CorruptPayloadError{Detail: "truncated " + field}
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", &CorruptPayloadError{Detail: "truncated " + field}
	}
	if !utf8.Valid(raw) {
		return "", &InvalidUTF8Error{Field: field}
	}
	return string(raw), nil
}

func readUint32(r *bytes.Reader, field string) (uint32, error) {
	var raw [4]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return 0, &CorruptPayloadError{Detail: "truncated " + field}
	}
	return binary.LittleEndian.Uint32(raw[:]), nil
}

func writeUint32(w *bytes.Buffer, value uint32) {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], value)
	w.Write(raw[:])
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
