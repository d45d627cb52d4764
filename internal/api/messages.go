package api

import "google.golang.org/protobuf/types/known/timestamppb"

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	// Identifier is an email or a username.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse carries either a session token, or TwoFactorRequired with a
// pending token to be completed by VerifyLogin or FinishPasskeyLogin.
type LoginResponse struct {
	AccessToken       string `json:"access_token,omitempty"`
	TwoFactorRequired bool   `json:"two_factor_required,omitempty"`
	PendingToken      string `json:"pending_token,omitempty"`
	Username          string `json:"username,omitempty"`
}

type VerifyLoginRequest struct {
	PendingToken  string `json:"pending_token"`
	Code          string `json:"code"`
	UseBackupCode bool   `json:"use_backup_code,omitempty"`
}

type BeginPasskeyLoginResponse struct {
	Challenge      []byte `json:"challenge"`
	ChallengeToken string `json:"challenge_token"`
}

type FinishPasskeyLoginRequest struct {
	ChallengeToken    string `json:"challenge_token"`
	CredentialID      string `json:"credential_id"`
	ClientDataJSON    []byte `json:"client_data_json"`
	AuthenticatorData []byte `json:"authenticator_data"`
	Signature         []byte `json:"signature"`
	// PendingToken, when set, ties the assertion to a password login
	// waiting for its second factor.
	PendingToken string `json:"pending_token,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type SetupTwoFactorResponse struct {
	Secret      string   `json:"secret"`
	OTPAuthURL  string   `json:"otpauth_url"`
	BackupCodes []string `json:"backup_codes"`
}

type EnableTwoFactorRequest struct {
	Secret      string   `json:"secret"`
	Code        string   `json:"code"`
	BackupCodes []string `json:"backup_codes"`
}

type DisableTwoFactorRequest struct {
	Code          string `json:"code"`
	UseBackupCode bool   `json:"use_backup_code,omitempty"`
}

type ViewBackupCodesRequest struct {
	Code string `json:"code"`
}

type BackupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

type RegisterPasskeyRequest struct {
	CredentialID string `json:"credential_id"`
	// PublicKey is a DER SubjectPublicKeyInfo.
	PublicKey []byte `json:"public_key"`
	// Algorithm is a COSE algorithm id: -7, -8 or -257.
	Algorithm int32 `json:"algorithm"`
}

type Item struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Blob      string                 `json:"blob,omitempty"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
	UpdatedAt *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

type SaveItemRequest struct {
	Title string `json:"title"`
	Blob  string `json:"blob"`
}

type UpdateItemRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Blob  string `json:"blob"`
}

type ItemRequest struct {
	ID string `json:"id"`
}

type ItemResponse struct {
	Item *Item `json:"item"`
}

type ListItemsResponse struct {
	Items []*Item `json:"items"`
}

type ActivityEntry struct {
	ID        int64                  `json:"id"`
	Action    string                 `json:"action"`
	IP        string                 `json:"ip,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	CreatedAt *timestamppb.Timestamp `json:"created_at"`
}

type ListActivityRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type ListActivityResponse struct {
	Entries []*ActivityEntry `json:"entries"`
}

type ExportItemsResponse struct {
	URL       string                 `json:"url"`
	ItemCount int32                  `json:"item_count"`
	ExpiresAt *timestamppb.Timestamp `json:"expires_at"`
}
