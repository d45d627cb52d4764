// Package passkeys stores public-key credentials registered by users.
package passkeys

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Passkey) error
	GetByCredentialID(ctx context.Context, credentialID string) (*models.Passkey, error)
	// AdvanceSignCount stores count if it is greater than the stored value,
	// or if both are zero. It reports whether the row was updated.
	AdvanceSignCount(ctx context.Context, credentialID string, count uint32) (bool, error)
	// ConsumeChallenge marks an assertion challenge as used until expiresAt.
	// It reports false when the challenge was already used.
	ConsumeChallenge(ctx context.Context, challenge []byte, expiresAt time.Time) (bool, error)
}
