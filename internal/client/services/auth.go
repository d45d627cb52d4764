// Package services contains application services for the NoteVault client.
// This file defines the account service: registration, the two-step login,
// password and account management, second-factor management and the
// activity log.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notevault/internal/client/client"
	"github.com/dmitrijs2005/notevault/internal/client/models"
)

// totpDigits is the length of an authenticator app code. Anything else is
// sent as a backup code.
const totpDigits = 6

// AuthService defines account operations for the CLI.
//
// Login returns a result with TwoFactorRequired set when a code is needed;
// CompleteLogin then opens the session. Every method honors context
// cancellation.
type AuthService interface {
	Register(ctx context.Context, email, username string, password []byte) error
	Login(ctx context.Context, identifier string, password []byte) (*models.LoginResult, error)
	CompleteLogin(ctx context.Context, pendingToken, code string) (*models.LoginResult, error)
	Logout(ctx context.Context)
	LoggedIn() bool
	ChangePassword(ctx context.Context, current, next []byte) error
	DeleteAccount(ctx context.Context, password []byte) error

	SetupTwoFactor(ctx context.Context) (*models.TwoFactorSetup, error)
	ConfirmTwoFactor(ctx context.Context, setup *models.TwoFactorSetup, code string) error
	DisableTwoFactor(ctx context.Context, code string) error
	BackupCodes(ctx context.Context, code string) ([]string, error)

	Activity(ctx context.Context, limit int) ([]*models.Activity, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Register(ctx context.Context, email, username string, password []byte) error {
	if err := a.client.Register(ctx, strings.TrimSpace(email), strings.TrimSpace(username), string(password)); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

func (a *authService) Login(ctx context.Context, identifier string, password []byte) (*models.LoginResult, error) {
	res, err := a.client.Login(ctx, strings.TrimSpace(identifier), string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return res, nil
}

// CompleteLogin finishes a pending login with either an authenticator code
// or a backup code; the kind is inferred from the input.
func (a *authService) CompleteLogin(ctx context.Context, pendingToken, code string) (*models.LoginResult, error) {
	code, backup := classifyCode(code)
	res, err := a.client.VerifyLogin(ctx, pendingToken, code, backup)
	if err != nil {
		return nil, fmt.Errorf("verification error: %w", err)
	}
	return res, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.client.Logout()
}

func (a *authService) LoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *authService) ChangePassword(ctx context.Context, current, next []byte) error {
	if err := a.client.ChangePassword(ctx, string(current), string(next)); err != nil {
		return fmt.Errorf("change password error: %w", err)
	}
	return nil
}

func (a *authService) DeleteAccount(ctx context.Context, password []byte) error {
	if err := a.client.DeleteAccount(ctx, string(password)); err != nil {
		return fmt.Errorf("delete account error: %w", err)
	}
	return nil
}

// SetupTwoFactor requests a fresh enrollment. Nothing is stored on the
// server until ConfirmTwoFactor succeeds.
func (a *authService) SetupTwoFactor(ctx context.Context) (*models.TwoFactorSetup, error) {
	setup, err := a.client.SetupTwoFactor(ctx)
	if err != nil {
		return nil, fmt.Errorf("2fa setup error: %w", err)
	}
	return setup, nil
}

func (a *authService) ConfirmTwoFactor(ctx context.Context, setup *models.TwoFactorSetup, code string) error {
	if err := a.client.EnableTwoFactor(ctx, setup, strings.TrimSpace(code)); err != nil {
		return fmt.Errorf("2fa enable error: %w", err)
	}
	return nil
}

func (a *authService) DisableTwoFactor(ctx context.Context, code string) error {
	code, backup := classifyCode(code)
	if err := a.client.DisableTwoFactor(ctx, code, backup); err != nil {
		return fmt.Errorf("2fa disable error: %w", err)
	}
	return nil
}

func (a *authService) BackupCodes(ctx context.Context, code string) ([]string, error) {
	codes, err := a.client.ViewBackupCodes(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("backup codes error: %w", err)
	}
	return codes, nil
}

func (a *authService) Activity(ctx context.Context, limit int) ([]*models.Activity, error) {
	list, err := a.client.ListActivity(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("activity error: %w", err)
	}
	return list, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// classifyCode trims input and reports whether it should be sent as a
// backup code rather than a TOTP code.
func classifyCode(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if len(code) != totpDigits {
		return code, true
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return code, true
		}
	}
	return code, false
}
