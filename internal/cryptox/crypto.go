// Package cryptox implements the per-item encryption scheme.
//
// An item is sealed with a key derived from a password chosen at save time.
// The resulting blob is self-describing: it carries the format version, the
// KDF salt and the AES-GCM nonce next to the ciphertext, so decryption needs
// nothing but the blob and the password. Only clients use this package; the
// server stores blobs as opaque strings and at most calls Inspect.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// BlobVersion is the only format currently produced.
	BlobVersion byte = 1

	SaltSize  = 16
	NonceSize = 12
	KeySize   = 32

	// gcmTagSize is the AES-GCM authentication tag appended by Seal.
	gcmTagSize = 16

	headerSize = 1 + SaltSize + NonceSize
)

// Argon2id parameters for BlobVersion 1.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

var errEmptyPassword = errors.New("empty item password")

// DeriveKey derives a 32-byte AES key from password and salt with Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, kdfTime, kdfMemory, kdfThreads, KeySize)
}

// Encrypt seals plaintext under a key derived from password and returns the
// base64-encoded blob. Salt and nonce are fresh for every call, so equal
// inputs never produce equal blobs.
func Encrypt(plaintext []byte, password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}

	salt := common.GenerateRandByteArray(SaltSize)
	nonce := common.GenerateRandByteArray(NonceSize)

	key := DeriveKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}

	header := make([]byte, 0, headerSize)
	header = append(header, BlobVersion)
	header = append(header, salt...)
	header = append(header, nonce...)

	// the header is authenticated as additional data
	out := make([]byte, 0, headerSize+len(plaintext)+gcmTagSize)
	out = append(out, header...)
	out = aead.Seal(out, nonce, plaintext, header)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens a blob produced by Encrypt. Any failure, including a wrong
// password, a truncated or tampered blob and an unknown version, yields
// common.ErrDecryptionFailed and no plaintext.
func Decrypt(blob string, password string) ([]byte, error) {
	raw, err := parse(blob)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	salt := raw[1 : 1+SaltSize]
	nonce := raw[1+SaltSize : headerSize]

	key := DeriveKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, raw[headerSize:], raw[:headerSize])
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Inspect reports whether blob is structurally valid without touching any
// key material. It returns common.ErrorValidation for malformed input.
func Inspect(blob string) error {
	if _, err := parse(blob); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}

func parse(blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("decode blob: %w", err)
	}
	if len(raw) < headerSize+gcmTagSize {
		return nil, errors.New("blob too short")
	}
	if raw[0] != BlobVersion {
		return nil, fmt.Errorf("unsupported blob version %d", raw[0])
	}
	return raw, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
