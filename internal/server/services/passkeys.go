package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/auth"
	"github.com/dmitrijs2005/notevault/internal/server/auth/passkey"
	"github.com/dmitrijs2005/notevault/internal/server/config"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const challengeSize = 32

// Challenge is handed to the client before a passkey assertion. Token is
// returned together with the assertion and binds it to Challenge.
type Challenge struct {
	Challenge []byte
	Token     string
}

// PasskeyService registers public-key credentials and verifies assertions
// made with them.
type PasskeyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenIssuer
	verifier    passkey.Verifier
	activity    *ActivityService
	logger      logging.Logger
}

func NewPasskeyService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, tokens *auth.TokenIssuer,
	activity *ActivityService, logger logging.Logger) *PasskeyService {
	return &PasskeyService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		verifier:    passkey.Verifier{RPID: cfg.PasskeyRPID, Origin: cfg.PasskeyOrigin},
		activity:    activity,
		logger:      logger.With("module", "passkeys"),
	}
}

// Register stores a credential for userID and marks the account as having a
// passkey. Credential ids are unique across all users.
func (s *PasskeyService) Register(ctx context.Context, userID, credentialID string, publicKey []byte, algorithm int) error {
	if credentialID == "" {
		return common.ErrorValidation
	}
	if _, err := passkey.COSEKey(publicKey, algorithm); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	p := &models.Passkey{
		ID:           uuid.NewString(),
		UserID:       userID,
		CredentialID: credentialID,
		PublicKey:    publicKey,
		Algorithm:    algorithm,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Passkeys(tx).Create(ctx, p); err != nil {
			return err
		}
		return s.repomanager.Users(tx).SetHasPasskey(ctx, userID)
	})
	switch {
	case err == nil:
	case errors.Is(err, common.ErrDuplicateCredential):
		return common.ErrDuplicateCredential
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrorUnauthorized
	default:
		return fmt.Errorf("%w: register passkey: %v", common.ErrorInternal, err)
	}

	s.activity.Record(ctx, userID, models.ActionPasskeyRegistered)
	return nil
}

// BeginAssertion creates a random challenge and a short-lived token that
// carries it, so no server-side state is kept between the two steps.
func (s *PasskeyService) BeginAssertion(ctx context.Context) (*Challenge, error) {
	challenge := common.GenerateRandByteArray(challengeSize)
	token, err := s.tokens.IssueChallenge(challenge)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &Challenge{Challenge: challenge, Token: token}, nil
}

// Assert verifies an assertion against the challenge in challengeToken and
// the stored credential, advances the signature counter and returns the
// owner's id. Each challenge is accepted once.
func (s *PasskeyService) Assert(ctx context.Context, challengeToken string, a passkey.Assertion) (string, error) {
	challenge, err := s.tokens.ParseChallenge(challengeToken)
	if err != nil {
		return "", err
	}

	cred, err := s.repomanager.Passkeys(s.db).GetByCredentialID(ctx, a.CredentialID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUnknownCredential
		}
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	count, err := s.verifier.Verify(a, challenge, cred.PublicKey, cred.Algorithm)
	if err != nil {
		s.logger.Warn(ctx, "passkey assertion rejected", "user_id", cred.UserID, "error", err)
		s.activity.Record(ctx, cred.UserID, models.ActionPasskeyLoginFailed)
		return "", common.ErrorUnauthorized
	}

	// each challenge is accepted once, zero counters included
	fresh, err := s.repomanager.Passkeys(s.db).ConsumeChallenge(ctx, challenge, time.Now().Add(auth.DefaultChallengeValidity))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !fresh {
		s.logger.Warn(ctx, "passkey challenge reused", "user_id", cred.UserID)
		s.activity.Record(ctx, cred.UserID, models.ActionPasskeyLoginFailed)
		return "", common.ErrorUnauthorized
	}

	ok, err := s.repomanager.Passkeys(s.db).AdvanceSignCount(ctx, a.CredentialID, count)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		s.logger.Warn(ctx, "passkey counter did not increase", "user_id", cred.UserID, "count", count)
		s.activity.Record(ctx, cred.UserID, models.ActionPasskeyLoginFailed)
		return "", common.ErrorUnauthorized
	}

	return cred.UserID, nil
}
