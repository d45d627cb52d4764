package models

import "time"

// Activity actions written to the activity log.
const (
	ActionLogin              = "login"
	ActionLoginFailed        = "login_failed"
	ActionLoginPending       = "login_pending_2fa"
	ActionTwoFactorVerified  = "2fa_verified"
	ActionTwoFactorFailed    = "2fa_failed"
	ActionTwoFactorEnabled   = "2fa_enabled"
	ActionTwoFactorDisabled  = "2fa_disabled"
	ActionPasskeyRegistered  = "passkey_registered"
	ActionPasskeyLogin       = "passkey_login"
	ActionPasskeyLoginFailed = "passkey_login_failed"
	ActionPasswordChanged    = "password_changed"
	ActionItemsExported      = "items_exported"
)

type Activity struct {
	ID        int64
	UserID    string
	Action    string
	IP        string
	UserAgent string
	CreatedAt time.Time
}
