package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/nhle/todo/internal/model"
)

func init() {
	registerDialect(dialect{
		name:       "postgres",
		driverName: "postgres",
		ddl: strings.NewReplacer(
			"{{seq}}", "BIGSERIAL PRIMARY KEY",
			"{{timestamp}}", "TIMESTAMP(6)",
		),
		prepareDSN:     preparePostgresDSN,
		classifyDriver: classifyPostgres,
	})
}

// preparePostgresDSN accepts both URL and key=value forms and returns the
// key=value form lib/pq parses fastest.
func preparePostgresDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return pq.ParseURL(dsn)
	}
	return dsn, nil
}

func classifyPostgres(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch {
	case pqErr.Code == "42P01": // undefined_table
		return model.ErrStorageUninitialized
	case pqErr.Code == "23505": // unique_violation
		return errUniqueViolation
	case pqErr.Code.Class() == "08", // connection_exception
		pqErr.Code.Class() == "57", // operator_intervention (shutdown)
		pqErr.Code == "3D000": // invalid_catalog_name
		return model.ErrStorageUnavailable
	}
	return nil
}
