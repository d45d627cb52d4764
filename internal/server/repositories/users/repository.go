// Package users provides the PostgreSQL-backed credential store.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	Exists(ctx context.Context, email, username string) (bool, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	SetHasPasskey(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	// EnableTwoFactor and DisableTwoFactor issue several statements and must
	// run on a transaction to keep the secret and the codes consistent.
	EnableTwoFactor(ctx context.Context, id, secret string, backupCodes []string) error
	DisableTwoFactor(ctx context.Context, id string) error
	ListBackupCodes(ctx context.Context, id string) ([]string, error)
	// ConsumeBackupCode removes code if it is still present and reports
	// whether it did. Concurrent callers cannot both succeed.
	ConsumeBackupCode(ctx context.Context, id, code string) (bool, error)
}
