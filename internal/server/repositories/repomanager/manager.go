package repomanager

import (
	"context"
	"database/sql"

	"github.com/truthlens/truthlens/internal/dbx"
	"github.com/truthlens/truthlens/internal/server/repositories/corrections"
	"github.com/truthlens/truthlens/internal/server/repositories/documents"
	"github.com/truthlens/truthlens/internal/server/repositories/refreshtokens"
	"github.com/truthlens/truthlens/internal/server/repositories/sentences"
	"github.com/truthlens/truthlens/internal/server/repositories/users"
)

// RepositoryManager vends entity repositories bound to a DBTX, so the same
// constructors serve both plain connections and in-flight transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
	Sentences(db dbx.DBTX) sentences.Repository
	Corrections(db dbx.DBTX) corrections.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
