package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/server/models"
)

const userColumns = `id, email, username, password_hash, two_factor_enabled, two_factor_secret, has_passkey, last_login, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user. A clash on email or username yields
// common.ErrDuplicateIdentity.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, email, username, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.UserName, user.PasswordHash).Scan(&user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return common.ErrDuplicateIdentity
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Exists reports whether email or username is already taken as either an
// email or a username, since login accepts both in one field.
func (r *PostgresRepository) Exists(ctx context.Context, email, username string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM users WHERE email IN ($1, $2) OR username IN ($1, $2))`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// GetByIdentifier looks a user up by exact email or username. An email
// match wins over a username match.
func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1 OR username = $1
		 ORDER BY (email = $1) DESC
		 LIMIT 1`

	return scanUser(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1`

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
}

func (r *PostgresRepository) SetHasPasskey(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE users SET has_passkey = TRUE WHERE id = $1`, id)
}

// Delete removes the user; owned rows go with it through ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) EnableTwoFactor(ctx context.Context, id, secret string, backupCodes []string) error {
	query :=
		`UPDATE users SET two_factor_enabled = TRUE, two_factor_secret = $2
		 WHERE id = $1`

	if err := r.execOne(ctx, query, id, secret); err != nil {
		return err
	}
	return r.replaceBackupCodes(ctx, id, backupCodes)
}

func (r *PostgresRepository) DisableTwoFactor(ctx context.Context, id string) error {
	query :=
		`UPDATE users SET two_factor_enabled = FALSE, two_factor_secret = NULL
		 WHERE id = $1`

	if err := r.execOne(ctx, query, id); err != nil {
		return err
	}
	return r.replaceBackupCodes(ctx, id, nil)
}

func (r *PostgresRepository) ListBackupCodes(ctx context.Context, id string) ([]string, error) {
	query :=
		`SELECT code FROM two_factor_backup_codes
		 WHERE user_id = $1
		 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return codes, nil
}

func (r *PostgresRepository) ConsumeBackupCode(ctx context.Context, id, code string) (bool, error) {
	query :=
		`DELETE FROM two_factor_backup_codes c
		 USING users u
		 WHERE u.id = c.user_id AND u.two_factor_enabled
		   AND c.user_id = $1 AND c.code = $2`

	res, err := r.db.ExecContext(ctx, query, id, code)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// --- helpers below ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		enabled   bool
		secret    sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.UserName, &u.PasswordHash,
		&enabled, &secret, &u.HasPasskey, &lastLogin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if enabled && secret.Valid {
		u.TwoFactor = &models.TwoFactor{Secret: secret.String}
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

func (r *PostgresRepository) replaceBackupCodes(ctx context.Context, id string, codes []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM two_factor_backup_codes WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	for i, c := range codes {
		query :=
			`INSERT INTO two_factor_backup_codes (user_id, code, position)
			 VALUES ($1, $2, $3)`
		if _, err := r.db.ExecContext(ctx, query, id, c, i); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
