package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	msqlite "modernc.org/sqlite" // Local SQLite driver
	sqlite3 "modernc.org/sqlite/lib"
)

// Database is the pooled connection to the backing store. It is opened once
// at startup and passed to everything that needs storage.
type Database struct {
	pool   *sql.DB
	driver string
}

// New opens the pool, verifies it and applies the schema. Local SQLite is
// limited to maxOpenConns connections (at least one).
func New(ctx context.Context, dbURL string, maxOpenConns int) (*Database, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	dsn := dbURL
	if driverName == "sqlite" {
		dsn = sqliteDSN(dbURL)
	}

	pool, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driverName, err)
	}

	if driverName == "sqlite" && maxOpenConns < 1 {
		maxOpenConns = 1
	}
	if maxOpenConns > 0 {
		pool.SetMaxOpenConns(maxOpenConns)
		pool.SetMaxIdleConns(maxOpenConns)
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to %s database: %w", driverName, err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Database{pool: pool, driver: driverName}, nil
}

// sqliteDSN appends the per-connection options every pooled connection must
// carry: a busy timeout, and BEGIN IMMEDIATE so that read-then-write
// transactions take the write lock before reading.
func sqliteDSN(dbURL string) string {
	sep := "?"
	if strings.Contains(dbURL, "?") {
		sep = "&"
	}
	return dbURL + sep + "_pragma=busy_timeout(5000)&_txlock=immediate"
}

func migrate(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS clips (
		clip_id TEXT PRIMARY KEY NOT NULL,
		shortcode TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		title TEXT,
		expires INTEGER,
		password TEXT,
		posted INTEGER NOT NULL,
		hits INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_clips_expires ON clips(expires);
	`
	_, err := db.ExecContext(ctx, query)
	return err
}

// Pool exposes the underlying pool for single-statement reads.
func (d *Database) Pool() *sql.DB {
	return d.pool
}

// Driver returns the registered driver name in use.
func (d *Database) Driver() string {
	return d.driver
}

func (d *Database) Close() error {
	return d.pool.Close()
}

// WithTx runs fn inside a transaction. The transaction is committed only if
// fn returns nil.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
	}
	// libsql reports constraint failures as plain text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
