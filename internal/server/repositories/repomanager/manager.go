package repomanager

import (
	"context"
	"database/sql"

	"shopmedia/internal/dbx"
	"shopmedia/internal/server/repositories/images"
	"shopmedia/internal/server/repositories/products"
)

// RepositoryManager vends repositories bound to an arbitrary DBTX, so a
// service can run several repos inside one transaction.
type RepositoryManager interface {
	Products(db dbx.DBTX) products.Repository
	Images(db dbx.DBTX) images.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
