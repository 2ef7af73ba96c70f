// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"errors"
	"fmt"
)

// ErrInvalidMagic indicates the file does not start with the IRDBUF
// magic constant — it is not a buffer database at all.
var ErrInvalidMagic = errors.New("invalid buffer database magic header")

// ErrCrypto is the single opaque signal for every decryption-time
// failure: authentication tag mismatch, missing salt in passphrase
// mode, malformed key material. It deliberately carries no detail so
// the error surface cannot be used as a decryption oracle.
var ErrCrypto = errors.New("encryption failure")

// ErrKeyModeMismatch indicates a raw-key configuration tried to read
// a file written under passphrase mode (non-zero salt length). The
// salt-length field is plaintext metadata, so naming the mismatch
// reveals nothing about the key; it turns an undiagnosable decrypt
// failure into an actionable configuration error.
var ErrKeyModeMismatch = errors.New("buffer database was written under passphrase mode but a raw key is configured")

// ErrMissingEncryptionKey indicates encryption was enabled without
// any usable key material (raw key, key file, or passphrase).
var ErrMissingEncryptionKey = errors.New("encryption enabled but no key material configured")

// UnsupportedVersionError indicates the file header carries a format
// version this build does not understand.
type UnsupportedVersionError struct {
	Version uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported buffer database version %d", e.Version)
}

// UnsupportedFlagsError indicates the pipeline flags recorded in the
// file header do not match the configured pipeline — for example an
// encrypted file read with encryption disabled, or a compression
// algorithm change between writer and reader.
type UnsupportedFlagsError struct {
	Flags uint32
}

func (e *UnsupportedFlagsError) Error() string {
	return fmt.Sprintf("unsupported buffer database flags %#x (pipeline configuration mismatch)", e.Flags)
}

// OverflowError indicates a stored count does not fit the field it is
// being converted into.
type OverflowError struct {
	Field string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("buffer database value overflow in %s", e.Field)
}

// InvalidUTF8Error indicates stored text is not valid UTF-8.
type InvalidUTF8Error struct {
	Field string
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("buffer database contains invalid UTF-8 in %s", e.Field)
}

// CorruptPayloadError indicates the decoded domain payload is
// structurally truncated or malformed.
type CorruptPayloadError struct {
	Detail string
}

func (e *CorruptPayloadError) Error() string {
	return fmt.Sprintf("corrupt buffer database payload: %s", e.Detail)
}

// InvalidKeyConfigError indicates key material or encryption settings
// that could not be parsed at configuration time. Configuration
// happens before any ciphertext exists, so detail here is safe.
type InvalidKeyConfigError struct {
	Detail string
}

func (e *InvalidKeyConfigError) Error() string {
	return fmt.Sprintf("invalid encryption configuration: %s", e.Detail)
}
