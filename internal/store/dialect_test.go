package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo/internal/model"
)

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x INT);\n\n  CREATE INDEX i ON a(x) ;\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a(x)"}, got)
}

func TestMigrationsSubstituteEveryMarker(t *testing.T) {
	for name, d := range dialects {
		for _, m := range migrations {
			assert.NotContains(t, d.ddl.Replace(m.sql), "{{", "dialect %s, migration v%d", name, m.version)
		}
	}
}

func TestClassifyPostgres(t *testing.T) {
	d, err := lookupDialect("postgres")
	require.NoError(t, err)

	tests := []struct {
		code pq.ErrorCode
		want error
	}{
		{"42P01", model.ErrStorageUninitialized},
		{"23505", errUniqueViolation},
		{"08006", model.ErrStorageUnavailable},
		{"3D000", model.ErrStorageUnavailable},
	}
	for _, tt := range tests {
		err := d.classify(fmt.Errorf("query: %w", &pq.Error{Code: tt.code}))
		assert.ErrorIs(t, err, tt.want, "code %s", tt.code)
	}

	other := &pq.Error{Code: "22001"}
	assert.Same(t, error(other), d.classify(other))
}

func TestClassifyMySQL(t *testing.T) {
	d, err := lookupDialect("mysql")
	require.NoError(t, err)

	assert.ErrorIs(t, d.classify(&mysql.MySQLError{Number: 1146}), model.ErrStorageUninitialized)
	assert.ErrorIs(t, d.classify(&mysql.MySQLError{Number: 1062}), errUniqueViolation)
	assert.ErrorIs(t, d.classify(mysql.ErrInvalidConn), model.ErrStorageUnavailable)
}

func TestClassifyGeneric(t *testing.T) {
	d, err := lookupDialect("sqlite")
	require.NoError(t, err)

	assert.Nil(t, d.classify(nil))
	assert.ErrorIs(t, d.classify(driver.ErrBadConn), model.ErrStorageUnavailable)

	plain := errors.New("plain")
	assert.Same(t, plain, d.classify(plain))

	already := fmt.Errorf("%w: inner", model.ErrStorageUnavailable)
	assert.Same(t, already, d.classify(already))
}

func TestPrepareMySQLDSN(t *testing.T) {
	dsn, err := prepareMySQLDSN("todo:pw@tcp(localhost:3306)/todo")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.True(t, cfg.ClientFoundRows)
	assert.Equal(t, "UTC", cfg.Loc.String())
}

func TestPreparePostgresDSN(t *testing.T) {
	dsn, err := preparePostgresDSN("postgres://todo:pw@localhost:5432/todo?sslmode=disable")
	require.NoError(t, err)
	assert.Contains(t, dsn, "dbname='todo'")
	assert.Contains(t, dsn, "sslmode='disable'")
	assert.Contains(t, dsn, "host='localhost'")

	kv := "host=localhost dbname=todo"
	same, err := preparePostgresDSN(kv)
	require.NoError(t, err)
	assert.Equal(t, kv, same)
}
