package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/activity"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/items"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/passkeys"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx, so
// services can run several repositories inside one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Items(db dbx.DBTX) items.Repository
	Passkeys(db dbx.DBTX) passkeys.Repository
	Activity(db dbx.DBTX) activity.Repository
}
