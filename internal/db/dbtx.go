package db

import (
	"context"
	"database/sql"
)

// DBTX is the query interface satisfied by both *sql.DB and *sql.Tx.
// Repositories take a DBTX so the commit paths (allocation saves, change
// request approvals, weekly submissions) can rebuild them over the
// transaction from UnitOfWork.WithinTx and re-validate against the same
// snapshot they write to.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
