package etl

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code raised when an insert collides
// with a unique constraint; the loader treats it as "already imported".
const uniqueViolation = "23505"

// Row scans a single result row.
type Row interface {
	Scan(dest ...any) error
}

// Tx is the minimal transactional surface the loader needs. pgx satisfies it
// through the adapter below; tests supply fakes.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) error
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DB opens loader transactions.
type DB interface {
	Begin(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

// pgxDB adapts *pgx.Conn to the DB interface.
type pgxDB struct {
	conn *pgx.Conn
}

// Open connects to the warehouse with a pgx connection string
// (postgres://user@host/dbname or key=value form).
func Open(ctx context.Context, connString string) (DB, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to warehouse: %w", err)
	}
	return &pgxDB{conn: conn}, nil
}

func (d *pgxDB) Begin(ctx context.Context) (Tx, error) {
	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

func (d *pgxDB) Close(ctx context.Context) error { return d.conn.Close(ctx) }

// pgxTx adapts pgx.Tx, discarding command tags the loader never inspects.
type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := t.tx.Exec(ctx, sql, args...)
	return err
}

func (t *pgxTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

func (t *pgxTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
