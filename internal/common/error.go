// Package common defines shared constants and sentinel errors used across
// client and server layers of NoteVault. Callers should use errors.Is to
// match these values. The text of each error is also the gRPC status message,
// so the client can map a status back onto the same sentinel.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Credential store errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateIdentity  = errors.New("email or username already registered")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidIdentifier  = errors.New("invalid email or username")

	// Second factor errors.
	ErrInvalidCode = errors.New("invalid code")
	ErrNotEnabled  = errors.New("two-factor authentication is not enabled")

	// Passkey errors.
	ErrDuplicateCredential = errors.New("credential already registered")
	ErrUnknownCredential   = errors.New("unknown credential")

	// Item encryption errors. Wrong password and corrupted blob are
	// deliberately the same value.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// Known lists every sentinel that may travel across the RPC boundary.
var Known = []error{
	ErrorNotFound,
	ErrorInternal,
	ErrorUnauthorized,
	ErrorValidation,
	ErrInvalidCredentials,
	ErrDuplicateIdentity,
	ErrWeakPassword,
	ErrInvalidIdentifier,
	ErrInvalidCode,
	ErrNotEnabled,
	ErrDuplicateCredential,
	ErrUnknownCredential,
	ErrDecryptionFailed,
	ErrInvalidToken,
	ErrTokenExpired,
}

// FromMessage returns the sentinel whose text equals msg, or is followed by
// ": detail" in msg. It returns nil for unknown messages.
func FromMessage(msg string) error {
	for _, e := range Known {
		text := e.Error()
		if msg == text || strings.HasPrefix(msg, text+": ") {
			return e
		}
	}
	return nil
}
