// Package models defines client-side data models used by the NoteVault CLI.
package models

import "time"

// Item is a note as the server stores it. Blob is the sealed body and is only
// populated by a single-item fetch.
type Item struct {
	ID        string
	Title     string
	Blob      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note is the plaintext sealed inside an item blob.
type Note struct {
	Text string `json:"text"`
}

// LoginResult reports the outcome of the password step. When
// TwoFactorRequired is set the session is not open yet and PendingToken must
// be completed with a code.
type LoginResult struct {
	Username          string
	TwoFactorRequired bool
	PendingToken      string
}

// TwoFactorSetup is an enrollment the client holds until the user confirms it
// with a code from the authenticator app.
type TwoFactorSetup struct {
	Secret      string
	OTPAuthURL  string
	BackupCodes []string
}

type Activity struct {
	ID        int64
	Action    string
	IP        string
	UserAgent string
	CreatedAt time.Time
}

// ExportLink points at an uploaded vault archive.
type ExportLink struct {
	URL       string
	ItemCount int
	ExpiresAt time.Time
}

// Challenge is a passkey assertion challenge issued by the server.
type Challenge struct {
	Challenge []byte
	Token     string
}
