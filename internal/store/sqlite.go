package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nhle/todo/internal/model"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)

	registerDialect(dialect{
		name:       "sqlite",
		driverName: "sqlite",
		ddl: strings.NewReplacer(
			"{{seq}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{timestamp}}", "DATETIME",
		),
		prepareDSN:     prepareSQLiteDSN,
		setup:          setupSQLite,
		classifyDriver: classifySQLite,
	})
}

// prepareSQLiteDSN creates the parent directory of a file database.
func prepareSQLiteDSN(dsn string) (string, error) {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return dsn, nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return dsn, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating db directory %q: %w", dir, err)
	}
	return dsn, nil
}

// setupSQLite pins the pool to one connection, so an in-memory database is
// shared by every transaction, and turns on WAL, foreign keys and a busy
// timeout for concurrent CLI processes.
func setupSQLite(ctx context.Context, db *sqlx.DB) error {
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

func classifySQLite(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return nil
	}

	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errUniqueViolation
	}

	switch se.Code() & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		if strings.Contains(se.Error(), "UNIQUE constraint failed") {
			return errUniqueViolation
		}
	case sqlite3.SQLITE_ERROR:
		if strings.Contains(se.Error(), "no such table") {
			return model.ErrStorageUninitialized
		}
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_NOTADB,
		sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_READONLY:
		return model.ErrStorageUnavailable
	}
	return nil
}
