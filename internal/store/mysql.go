package store

import (
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/nhle/todo/internal/model"
)

func init() {
	registerDialect(dialect{
		name:       "mysql",
		driverName: "mysql",
		ddl: strings.NewReplacer(
			"{{seq}}", "BIGINT AUTO_INCREMENT PRIMARY KEY",
			"{{timestamp}}", "DATETIME(6)",
		),
		prepareDSN:     prepareMySQLDSN,
		classifyDriver: classifyMySQL,
	})
}

// prepareMySQLDSN forces time parsing in UTC so DATETIME columns scan into
// time.Time the same way they do on the other backends. ClientFoundRows
// makes an UPDATE that rewrites identical values still count its row.
func prepareMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

func classifyMySQL(err error) error {
	if errors.Is(err, mysql.ErrInvalidConn) {
		return model.ErrStorageUnavailable
	}

	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return nil
	}

	switch myErr.Number {
	case 1146: // ER_NO_SUCH_TABLE
		return model.ErrStorageUninitialized
	case 1062: // ER_DUP_ENTRY
		return errUniqueViolation
	case 1040, 1045, 1049, 1053: // too many connections, access denied, unknown db, shutdown
		return model.ErrStorageUnavailable
	}
	return nil
}
