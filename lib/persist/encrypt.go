// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"

	"github.com/iridium-shell/iridium/lib/secret"
)

// KeySize is the symmetric key size for both supported ciphers.
const KeySize = 32

// DefaultPBKDF2Iterations is the passphrase stretching count used when
// none is configured.
const DefaultPBKDF2Iterations = 600_000

// saltSize is the length of the random salt generated for every
// passphrase-mode encrypt call.
const saltSize = 16

// nonceSize is the AEAD nonce length for both supported ciphers. A
// fresh random nonce is generated for every encrypt call — nonce reuse
// under one key breaks both ciphers, so derivation is never
// deterministic and nonces are never cached.
const nonceSize = 12

// EncryptionAlgorithm selects the AEAD cipher of the encryption layer.
// The flag bit is recorded in the file header; these values are format
// constants.
type EncryptionAlgorithm uint8

const (
	// EncryptionChaCha20Poly1305 is the default cipher.
	EncryptionChaCha20Poly1305 EncryptionAlgorithm = iota

	// EncryptionAES256GCM is selectable by name for deployments that
	// prefer hardware-accelerated AES.
	EncryptionAES256GCM
)

// String returns the configuration name of the cipher.
func (a EncryptionAlgorithm) String() string {
	switch a {
	case EncryptionAES256GCM:
		return "aes-256-gcm"
	default:
		return "chacha20poly1305"
	}
}

// FlagBit returns the cipher's bit in the header flags word.
func (a EncryptionAlgorithm) FlagBit() uint32 {
	switch a {
	case EncryptionAES256GCM:
		return 0x0002
	default:
		return 0x0001
	}
}

// ParseEncryptionAlgorithm resolves a configuration name. Matching is
// case-insensitive after trimming.
func ParseEncryptionAlgorithm(name string) (EncryptionAlgorithm, bool) {
	switch normalizeName(name) {
	case "chacha20poly1305", "chacha20", "chacha", "default":
		return EncryptionChaCha20Poly1305, true
	case "aes256gcm", "aes-256-gcm":
		return EncryptionAES256GCM, true
	default:
		return EncryptionChaCha20Poly1305, false
	}
}

// aead constructs the AEAD instance for a 32-byte key.
func (a EncryptionAlgorithm) aead(key []byte) (cipher.AEAD, error) {
	switch a {
	case EncryptionAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	default:
		return chacha20poly1305.New(key)
	}
}

// KeySource produces the encryption key for each pipeline call. A raw
// key is used directly (salt length zero on the wire); a passphrase is
// stretched through PBKDF2-HMAC-SHA256 with a fresh random salt per
// encrypt call.
type KeySource interface {
	// deriveForEncrypt returns the key for one encrypt call plus the
	// salt to persist alongside the ciphertext (nil for raw keys).
	// The caller owns the returned key and must close it.
	deriveForEncrypt() (*secret.Buffer, []byte, error)

	// deriveForDecrypt re-derives the key from the caller's own
	// configuration and the salt recovered from the file. The caller
	// owns the returned key and must close it.
	deriveForDecrypt(salt []byte) (*secret.Buffer, error)

	// Close releases the underlying key material.
	Close() error
}

// RawKey is a 32-byte key used directly, without derivation.
type RawKey struct {
	key *secret.Buffer
}

// NewRawKey wraps a 32-byte key. The buffer is owned by the RawKey
// from here on.
func NewRawKey(key *secret.Buffer) (*RawKey, error) {
	if key.Len() != KeySize {
		return nil, &InvalidKeyConfigError{Detail: fmt.Sprintf("raw key must be %d bytes, got %d", KeySize, key.Len())}
	}
	return &RawKey{key: key}, nil
}

func (r *RawKey) deriveForEncrypt() (*secret.Buffer, []byte, error) {
	key, err := r.key.Clone()
	if err != nil {
		return nil, nil, err
	}
	return key, nil, nil
}

func (r *RawKey) deriveForDecrypt(salt []byte) (*secret.Buffer, error) {
	if len(salt) != 0 {
		// A non-zero salt means the file was written under passphrase
		// mode. The salt length is plaintext metadata, so naming the
		// mismatch leaks nothing.
		return nil, ErrKeyModeMismatch
	}
	return r.key.Clone()
}

// Close releases the raw key.
func (r *RawKey) Close() error { return r.key.Close() }

// PassphraseKey stretches a passphrase into a key via
// PBKDF2-HMAC-SHA256. The iteration count is part of the caller's
// configuration and is never read from the file.
type PassphraseKey struct {
	passphrase *secret.Buffer
	iterations int
}

// NewPassphraseKey wraps a passphrase and iteration count. The
// passphrase buffer is owned by the PassphraseKey from here on.
func NewPassphraseKey(passphrase *secret.Buffer, iterations int) (*PassphraseKey, error) {
	if passphrase.Len() == 0 {
		return nil, &InvalidKeyConfigError{Detail: "passphrase cannot be empty"}
	}
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return &PassphraseKey{passphrase: passphrase, iterations: iterations}, nil
}

func (p *PassphraseKey) deriveForEncrypt() (*secret.Buffer, []byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, fmt.Errorf("generating random salt: %w", err)
	}
	key, err := p.derive(salt)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}

func (p *PassphraseKey) deriveForDecrypt(salt []byte) (*secret.Buffer, error) {
	// The salt is required and fixed-size in passphrase mode. Its
	// absence or truncation is reported as the one opaque crypto
	// failure, like a tag mismatch.
	if len(salt) != saltSize {
		return nil, ErrCrypto
	}
	return p.derive(salt)
}

func (p *PassphraseKey) derive(salt []byte) (*secret.Buffer, error) {
	derived := pbkdf2.Key(p.passphrase.Bytes(), salt, p.iterations, KeySize, sha256.New)
	// NewFromBytes copies into locked memory and zeros the heap slice.
	return secret.NewFromBytes(derived)
}

// Close releases the passphrase.
func (p *PassphraseKey) Close() error { return p.passphrase.Close() }

// Encryption is the resolved encryption configuration: a cipher and a
// key source.
type Encryption struct {
	Algorithm EncryptionAlgorithm
	Key       KeySource
}

// Close releases the key material.
func (e *Encryption) Close() error { return e.Key.Close() }

// EncryptionLayer is the pipeline stage that seals the (already
// compressed) payload with an AEAD cipher.
//
// Wire layout of the encoded output:
//
//	[saltLen: u8] [salt: saltLen bytes] [nonceLen: u8] [nonce] [ciphertext‖tag]
//
// Raw-key mode writes salt length zero. The salt and nonce are public;
// the tag authenticates the ciphertext.
type EncryptionLayer struct {
	settings Encryption
}

// NewEncryptionLayer creates a layer from resolved settings.
func NewEncryptionLayer(settings Encryption) *EncryptionLayer {
	return &EncryptionLayer{settings: settings}
}

// FlagBit returns the cipher's header flag bit.
func (l *EncryptionLayer) FlagBit() uint32 { return l.settings.Algorithm.FlagBit() }

// Encode derives a key for this call, generates a fresh random nonce,
// and seals data.
func (l *EncryptionLayer) Encode(data []byte) ([]byte, error) {
	key, salt, err := l.settings.Key.deriveForEncrypt()
	if err != nil {
		return nil, err
	}
	defer key.Close()

	aead, err := l.settings.Algorithm.aead(key.Bytes())
	if err != nil {
		return nil, ErrCrypto
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating random nonce: %w", err)
	}

	output := make([]byte, 0, 2+len(salt)+len(nonce)+len(data)+aead.Overhead())
	output = append(output, byte(len(salt)))
	output = append(output, salt...)
	output = append(output, byte(len(nonce)))
	output = append(output, nonce...)
	output = aead.Seal(output, nonce, data, nil)
	return output, nil
}

// Decode parses the salt and nonce fields, re-derives the key from
// the layer's own configuration, and authenticates and decrypts the
// remainder. Every failure — truncated framing, tag mismatch, wrong
// key — is a hard error; there is no partial decode.
func (l *EncryptionLayer) Decode(data []byte) ([]byte, error) {
	if len(data) < 1 {
		return nil, ErrCrypto
	}
	saltLen := int(data[0])
	data = data[1:]
	if len(data) < saltLen+1 {
		return nil, ErrCrypto
	}
	salt := data[:saltLen]
	data = data[saltLen:]

	nonceLen := int(data[0])
	data = data[1:]
	if nonceLen != nonceSize || len(data) < nonceLen {
		return nil, ErrCrypto
	}
	nonce := data[:nonceLen]
	ciphertext := data[nonceLen:]

	key, err := l.settings.Key.deriveForDecrypt(salt)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	aead, err := l.settings.Algorithm.aead(key.Bytes())
	if err != nil {
		return nil, ErrCrypto
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCrypto
	}
	return plaintext, nil
}
