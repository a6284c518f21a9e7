package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/todo/internal/model"
)

// errUniqueViolation marks a driver error caused by a unique constraint.
var errUniqueViolation = errors.New("unique constraint violation")

// dialect captures what differs between the supported SQL backends.
type dialect struct {
	// name is the value used in configuration.
	name string

	// driverName is the database/sql driver to open.
	driverName string

	// ddl substitutes {{...}} column-type markers in migrations.
	ddl *strings.Replacer

	// prepareDSN normalizes the configured DSN before opening.
	prepareDSN func(dsn string) (string, error)

	// setup runs once on the fresh handle before the first ping.
	setup func(ctx context.Context, db *sqlx.DB) error

	// classifyDriver maps backend-specific errors to the taxonomy. It
	// returns nil when it does not recognize err.
	classifyDriver func(err error) error
}

var dialects = map[string]dialect{}

func registerDialect(d dialect) {
	dialects[d.name] = d
}

func lookupDialect(name string) (dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver %q", name)
	}
	return d, nil
}

// classify maps err onto model.ErrStorageUninitialized,
// model.ErrStorageUnavailable or errUniqueViolation when it recognizes the
// cause, keeping err in the chain. Unrecognized errors pass through.
func (d dialect) classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrStorageUninitialized) ||
		errors.Is(err, model.ErrStorageUnavailable) ||
		errors.Is(err, errUniqueViolation) {
		return err
	}

	if d.classifyDriver != nil {
		if kind := d.classifyDriver(err); kind != nil {
			return fmt.Errorf("%w: %w", kind, err)
		}
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}

	return err
}
