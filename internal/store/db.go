package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store on top of a database/sql driver. The SQL is
// shared by every supported backend; the dialect supplies placeholders,
// column types and error classification.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect
}

// Open connects to the database named by driver ("sqlite", "postgres" or
// "mysql") and dsn. It does not touch the schema; call Migrate for that.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	d, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}

	dsn, err = d.prepareDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("preparing %s dsn: %w", d.name, err)
	}

	db, err := sqlx.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", d.name, d.classify(err))
	}

	if d.setup != nil {
		if err := d.setup(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("configuring %s db: %w", d.name, d.classify(err))
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s db: %w", d.name, d.classify(err))
	}

	return &SQLStore{db: db, dialect: d}, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// RunInTx begins a transaction, hands it to fn and commits if fn succeeds.
func (s *SQLStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", s.dialect.classify(err))
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", s.dialect.classify(err))
	}
	return nil
}

// Migrate checks the current schema version and applies any outstanding
// migrations in order, each in its own transaction.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)",
	); err != nil {
		return fmt.Errorf("creating schema_version table: %w", s.dialect.classify(err))
	}

	currentVersion := 0
	err := s.db.GetContext(ctx, &currentVersion,
		"SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return fmt.Errorf("reading schema version: %w", s.dialect.classify(err))
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func (s *SQLStore) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return s.dialect.classify(err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(s.dialect.ddl.Replace(m.sql)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return s.dialect.classify(err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.version,
	); err != nil {
		return s.dialect.classify(err)
	}

	return tx.Commit()
}

// splitStatements breaks a migration script on semicolons. Not every
// driver accepts several statements in one Exec.
func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// sqlTx implements Tx on a sqlx transaction.
type sqlTx struct {
	tx      *sqlx.Tx
	dialect dialect
}

// wrap classifies a driver error and prefixes it with what was being done.
func (t *sqlTx) wrap(err error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, t.dialect.classify(err))...)
}
