package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql query methods shared by *sql.DB and
// *sql.Tx. Stores are built against it so the same query code runs either
// directly on the pool or inside a transaction handed out by
// RunInTransaction (see UserStore.WithTx).
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
