// Package services contains server-side business logic. This file implements
// UserService: registration, password login with an optional second step,
// passkey login, password change and account removal.
package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/server/auth"
	"github.com/dmitrijs2005/notevault/internal/server/auth/passkey"
	"github.com/dmitrijs2005/notevault/internal/server/config"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LoginResult is the outcome of a login step. Exactly one of AccessToken and
// PendingToken is set: PendingToken means the second factor is still due.
type LoginResult struct {
	User              *models.User
	AccessToken       string
	PendingToken      string
	TwoFactorRequired bool
}

// UserService owns accounts and the login flow.
type UserService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	hasher            *auth.PasswordHasher
	tokens            *auth.TokenIssuer
	twoFactor         *TwoFactorService
	passkeys          *PasskeyService
	activity          *ActivityService
	minPasswordLength int
	dummyHash         string
	now               func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, tokens *auth.TokenIssuer,
	twoFactor *TwoFactorService, passkeys *PasskeyService, activity *ActivityService) *UserService {
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// Compared against when the identifier is unknown, so that a miss costs
	// the same bcrypt work as a wrong password.
	dummy, err := hasher.Hash(hex.EncodeToString(common.GenerateRandByteArray(16)))
	if err != nil {
		panic(err)
	}

	return &UserService{
		db:                db,
		repomanager:       m,
		hasher:            hasher,
		tokens:            tokens,
		twoFactor:         twoFactor,
		passkeys:          passkeys,
		activity:          activity,
		minPasswordLength: cfg.MinPasswordLength,
		dummyHash:         dummy,
		now:               time.Now,
	}
}

// Register validates the input, then creates the account. Only the bcrypt
// hash of password is stored.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	if err := s.checkPassword(password); err != nil {
		return nil, err
	}
	if !validEmail(email) || !validUsername(username) {
		return nil, common.ErrInvalidIdentifier
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.Exists(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if exists {
		return nil, common.ErrDuplicateIdentity
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		UserName:     username,
		PasswordHash: hash,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return user, nil
}

// VerifyPassword looks the user up by email or username and checks password.
// Every mismatch, including an unknown identifier, is ErrInvalidCredentials.
func (s *UserService) VerifyPassword(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies the password. Without a second factor it returns a session
// token; otherwise it returns a pending token for CompleteLogin or
// CompletePasskeyLogin.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.VerifyPassword(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.recordFailedLogin(ctx, identifier)
		}
		return nil, err
	}

	if !user.TwoFactorEnabled() {
		return s.startSession(ctx, user, models.ActionLogin)
	}

	pending, err := s.tokens.IssuePending(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	s.activity.Record(ctx, user.ID, models.ActionLoginPending)
	return &LoginResult{User: user, PendingToken: pending, TwoFactorRequired: true}, nil
}

// CompleteLogin finishes a login suspended by Login once the second factor
// checks out.
func (s *UserService) CompleteLogin(ctx context.Context, pendingToken, code string, useBackupCode bool) (*LoginResult, error) {
	userID, err := s.tokens.ParsePending(pendingToken)
	if err != nil {
		return nil, err
	}

	if err := s.twoFactor.CheckFactor(ctx, userID, code, useBackupCode); err != nil {
		if errors.Is(err, common.ErrInvalidCode) {
			s.activity.Record(ctx, userID, models.ActionTwoFactorFailed)
		}
		return nil, err
	}
	s.activity.Record(ctx, userID, models.ActionTwoFactorVerified)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, user, models.ActionLogin)
}

// CompletePasskeyLogin verifies a passkey assertion and opens a session for
// its owner. When pendingToken is set the assertion must come from the same
// user that passed the password step.
func (s *UserService) CompletePasskeyLogin(ctx context.Context, challengeToken string, a passkey.Assertion, pendingToken string) (*LoginResult, error) {
	userID, err := s.passkeys.Assert(ctx, challengeToken, a)
	if err != nil {
		return nil, err
	}

	if pendingToken != "" {
		pendingUserID, err := s.tokens.ParsePending(pendingToken)
		if err != nil {
			return nil, err
		}
		if pendingUserID != userID {
			s.activity.Record(ctx, pendingUserID, models.ActionPasskeyLoginFailed)
			return nil, common.ErrorUnauthorized
		}
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, user, models.ActionPasskeyLogin)
}

// ChangePassword replaces the password after re-checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := s.checkPassword(next); err != nil {
		return err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.repomanager.Users(s.db).UpdatePasswordHash(ctx, userID, hash); err != nil {
		return s.userError(err)
	}

	s.activity.Record(ctx, userID, models.ActionPasswordChanged)
	return nil
}

// DeleteAccount removes the user after checking password. Items, passkeys,
// backup codes and activity go with the account.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		return s.userError(err)
	}
	return nil
}

// --- helpers below ---

func (s *UserService) startSession(ctx context.Context, user *models.User, action string) (*LoginResult, error) {
	token, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	now := s.now().UTC()
	if err := s.repomanager.Users(s.db).TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, s.userError(err)
	}
	user.LastLogin = &now

	s.activity.Record(ctx, user.ID, action)
	return &LoginResult{User: user, AccessToken: token}, nil
}

// recordFailedLogin attributes a failed password attempt to an existing
// account. Attempts against unknown identifiers leave no trace.
func (s *UserService) recordFailedLogin(ctx context.Context, identifier string) {
	user, err := s.repomanager.Users(s.db).GetByIdentifier(ctx, identifier)
	if err != nil {
		return
	}
	s.activity.Record(ctx, user.ID, models.ActionLoginFailed)
}

func (s *UserService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, s.userError(err)
	}
	return user, nil
}

func (s *UserService) userError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnauthorized
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}

func (s *UserService) checkPassword(password string) error {
	if utf8.RuneCountInString(password) < s.minPasswordLength {
		return common.ErrWeakPassword
	}
	return nil
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validUsername(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= MinUsernameLength && n <= MaxUsernameLength
}
