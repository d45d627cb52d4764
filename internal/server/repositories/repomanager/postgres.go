// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/server/migrations"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/activity"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/items"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/passkeys"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Items returns an items.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Items(db dbx.DBTX) items.Repository {
	return items.NewPostgresRepository(db)
}

// Passkeys returns a passkeys.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Passkeys(db dbx.DBTX) passkeys.Repository {
	return passkeys.NewPostgresRepository(db)
}

// Activity returns an activity.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Activity(db dbx.DBTX) activity.Repository {
	return activity.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations. Applied versions are
// recorded by goose, so a repeated call is a no-op.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
