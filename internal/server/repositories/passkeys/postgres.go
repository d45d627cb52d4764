package passkeys

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores p. A credential id that already exists, for any user,
// yields common.ErrDuplicateCredential.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Passkey) error {
	query := `
		INSERT INTO passkeys (id, user_id, credential_id, public_key, algorithm, sign_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.UserID, p.CredentialID, p.PublicKey, p.Algorithm, int64(p.SignCount)).Scan(&p.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, "passkeys_credential_id_key") {
			return common.ErrDuplicateCredential
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByCredentialID(ctx context.Context, credentialID string) (*models.Passkey, error) {
	query := `
		SELECT id, user_id, credential_id, public_key, algorithm, sign_count, created_at, last_used_at
		FROM passkeys
		WHERE credential_id = $1
	`
	var (
		p        models.Passkey
		count    int64
		lastUsed sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, credentialID).
		Scan(&p.ID, &p.UserID, &p.CredentialID, &p.PublicKey, &p.Algorithm, &count, &p.CreatedAt, &lastUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.SignCount = uint32(count)
	if lastUsed.Valid {
		t := lastUsed.Time
		p.LastUsedAt = &t
	}
	return &p, nil
}

func (r *PostgresRepository) AdvanceSignCount(ctx context.Context, credentialID string, count uint32) (bool, error) {
	query := `
		UPDATE passkeys
		SET sign_count = $2, last_used_at = now()
		WHERE credential_id = $1
		  AND (sign_count < $2 OR (sign_count = 0 AND $2 = 0))
	`
	res, err := r.db.ExecContext(ctx, query, credentialID, int64(count))
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) ConsumeChallenge(ctx context.Context, challenge []byte, expiresAt time.Time) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM passkey_challenges WHERE expires_at < now()`); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	query := `
		INSERT INTO passkey_challenges (challenge_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (challenge_hash) DO NOTHING
	`
	h := sha256.Sum256(challenge)
	res, err := r.db.ExecContext(ctx, query, h[:], expiresAt)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}
