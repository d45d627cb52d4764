// Package models holds the server-side records shared by repositories and
// services.
package models

import "time"

type User struct {
	ID           string
	Email        string
	UserName     string
	PasswordHash string
	// TwoFactor is nil while two-factor authentication is disabled.
	TwoFactor  *TwoFactor
	HasPasskey bool
	LastLogin  *time.Time
	CreatedAt  time.Time
}

// TwoFactor is the enabled state of the second factor. The unused backup
// codes live in their own table and are read with ListBackupCodes, so a
// code can be consumed without rewriting the user row.
type TwoFactor struct {
	Secret string
}

func (u *User) TwoFactorEnabled() bool {
	return u.TwoFactor != nil
}
