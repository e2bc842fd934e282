package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/audit"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/sessions"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can
// hand the same *sql.Tx to several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Audit(db dbx.DBTX) audit.Repository
}
