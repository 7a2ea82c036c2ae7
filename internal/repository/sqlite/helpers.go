package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func txFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// conn returns the transaction carried by ctx, or db.
func conn(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// inTx runs fn in the transaction carried by ctx, or in a new one.
func inTx(ctx context.Context, db *sql.DB, fn func(DBTX) error) error {
	if t, ok := txFromContext(ctx); ok {
		return fn(t)
	}
	return tx(ctx, db, func(t *sql.Tx) error { return fn(t) })
}

type transactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor whose transactions are picked up by every
// repository in this package through the context.
func NewTransactor(db *sql.DB) repository.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return tx(ctx, t.db, func(sqlTx *sql.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, sqlTx))
	})
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
