package models

import "time"

type Passkey struct {
	ID           string
	UserID       string
	CredentialID string
	// PublicKey is a DER-encoded SubjectPublicKeyInfo.
	PublicKey []byte
	// Algorithm is the COSE algorithm identifier (-7, -8 or -257).
	Algorithm  int
	SignCount  uint32
	CreatedAt  time.Time
	LastUsedAt *time.Time
}
