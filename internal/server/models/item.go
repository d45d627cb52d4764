package models

import "time"

// Item is an encrypted note. Blob is opaque to the server.
type Item struct {
	ID        string
	UserID    string
	Title     string
	Blob      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
