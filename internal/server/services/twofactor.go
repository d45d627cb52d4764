package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/server/auth/mfa"
	"github.com/dmitrijs2005/notevault/internal/server/config"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/repomanager"
)

// TwoFactorService drives the second factor through
// Disabled -> pending enrollment (held by the client) -> Enabled -> Disabled.
type TwoFactorService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	authenticator *mfa.Authenticator
	activity      *ActivityService
}

func NewTwoFactorService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, activity *ActivityService) *TwoFactorService {
	return &TwoFactorService{
		db:            db,
		repomanager:   m,
		authenticator: mfa.NewAuthenticator(cfg.TOTPIssuer),
		activity:      activity,
	}
}

// RequestEnrollment provisions a secret and backup codes for userID without
// storing anything. The result is handed back unchanged to ConfirmEnrollment.
func (s *TwoFactorService) RequestEnrollment(ctx context.Context, userID string) (*mfa.Enrollment, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	e, err := s.authenticator.NewEnrollment(user.UserName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return e, nil
}

// ConfirmEnrollment checks code against secret and, on success, stores the
// secret and backupCodes in one transaction. A wrong code stores nothing.
// Confirming while already enabled replaces the previous secret and codes.
func (s *TwoFactorService) ConfirmEnrollment(ctx context.Context, userID, secret, code string, backupCodes []string) error {
	codes := make([]string, len(backupCodes))
	for i, c := range backupCodes {
		codes[i] = mfa.NormalizeBackupCode(c)
	}
	if secret == "" || !mfa.ValidBackupCodeSet(codes) {
		return common.ErrorValidation
	}
	if !s.authenticator.Validate(code, secret) {
		return common.ErrInvalidCode
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).EnableTwoFactor(ctx, userID, secret, codes)
	})
	if err != nil {
		return s.userError(err)
	}

	s.activity.Record(ctx, userID, models.ActionTwoFactorEnabled)
	return nil
}

// CheckFactor verifies a TOTP code, or consumes a backup code when
// useBackupCode is set. A backup code succeeds at most once.
func (s *TwoFactorService) CheckFactor(ctx context.Context, userID, code string, useBackupCode bool) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled() {
		return common.ErrNotEnabled
	}

	if !useBackupCode {
		if !s.authenticator.Validate(code, user.TwoFactor.Secret) {
			return common.ErrInvalidCode
		}
		return nil
	}

	code = mfa.NormalizeBackupCode(code)
	if code == "" {
		return common.ErrInvalidCode
	}
	ok, err := s.repomanager.Users(s.db).ConsumeBackupCode(ctx, userID, code)
	if err != nil {
		return fmt.Errorf("%w: consume backup code: %v", common.ErrorInternal, err)
	}
	if !ok {
		return common.ErrInvalidCode
	}
	return nil
}

// ViewBackupCodes returns the unused backup codes after re-checking a
// current TOTP code.
func (s *TwoFactorService) ViewBackupCodes(ctx context.Context, userID, code string) ([]string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.TwoFactorEnabled() {
		return nil, common.ErrNotEnabled
	}
	if !s.authenticator.Validate(code, user.TwoFactor.Secret) {
		return nil, common.ErrInvalidCode
	}
	codes, err := s.repomanager.Users(s.db).ListBackupCodes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list backup codes: %v", common.ErrorInternal, err)
	}
	return codes, nil
}

// Disable clears the secret and all backup codes in one transaction.
// Callers that face users are expected to run CheckFactor first.
func (s *TwoFactorService) Disable(ctx context.Context, userID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).DisableTwoFactor(ctx, userID)
	})
	if err != nil {
		return s.userError(err)
	}

	s.activity.Record(ctx, userID, models.ActionTwoFactorDisabled)
	return nil
}

// --- helpers below ---

func (s *TwoFactorService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, s.userError(err)
	}
	return user, nil
}

// userError maps a missing account to Unauthorized: the caller holds a token
// for a user that no longer exists.
func (s *TwoFactorService) userError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnauthorized
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
