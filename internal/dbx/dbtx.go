// Package dbx holds the storage plumbing every repository builds on: DBTX,
// a query interface satisfied by both *sql.DB and *sql.Tx, and WithTx, the
// unit-of-work wrapper that reconciliation and merge operations run inside.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface repositories are written against. Binding a
// repository to a DBTX instead of *sql.DB lets the same constructor serve
// one-off reads and multi-step transactions alike.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit when fn returns nil, rollback
// when it errors, rollback and rethrow when it panics. A reconciliation plan
// or an analysis merge either lands whole or not at all.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
