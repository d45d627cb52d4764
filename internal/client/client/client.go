package client

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	LoggedIn() bool
	Logout()

	Register(ctx context.Context, email, username, password string) error
	Login(ctx context.Context, identifier, password string) (*models.LoginResult, error)
	VerifyLogin(ctx context.Context, pendingToken, code string, useBackupCode bool) (*models.LoginResult, error)
	BeginPasskeyLogin(ctx context.Context) (*models.Challenge, error)
	FinishPasskeyLogin(ctx context.Context, req PasskeyAssertion) (*models.LoginResult, error)
	ChangePassword(ctx context.Context, current, next string) error
	DeleteAccount(ctx context.Context, password string) error

	SetupTwoFactor(ctx context.Context) (*models.TwoFactorSetup, error)
	EnableTwoFactor(ctx context.Context, setup *models.TwoFactorSetup, code string) error
	DisableTwoFactor(ctx context.Context, code string, useBackupCode bool) error
	ViewBackupCodes(ctx context.Context, code string) ([]string, error)
	RegisterPasskey(ctx context.Context, credentialID string, publicKey []byte, algorithm int) error

	SaveItem(ctx context.Context, title, blob string) (*models.Item, error)
	UpdateItem(ctx context.Context, id, title, blob string) (*models.Item, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListItems(ctx context.Context) ([]*models.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ExportItems(ctx context.Context) (*models.ExportLink, error)
	ListActivity(ctx context.Context, limit int) ([]*models.Activity, error)
}

// PasskeyAssertion is the authenticator output sent to FinishPasskeyLogin.
type PasskeyAssertion struct {
	ChallengeToken    string
	CredentialID      string
	ClientDataJSON    []byte
	AuthenticatorData []byte
	Signature         []byte
	PendingToken      string
}
