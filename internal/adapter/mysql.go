package adapter

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/roach88/quadsql/internal/querysql"
)

// utf8mb4_bin keeps equality comparisons byte-exact; the default collation
// would treat <http://a/X> and <http://a/x> as the same cell.
var mysqlSchema = []string{`
	CREATE TABLE IF NOT EXISTS quads (
		subject   TEXT NOT NULL,
		predicate TEXT NOT NULL,
		object    TEXT NOT NULL,
		context   TEXT NOT NULL,
		INDEX quads_subject_idx (subject(191)),
		INDEX quads_predicate_idx (predicate(191)),
		INDEX quads_object_idx (object(191)),
		INDEX quads_context_idx (context(191))
	) DEFAULT CHARSET = utf8mb4 COLLATE = utf8mb4_bin`,
}

// MySQL stores statements in MySQL or MariaDB through github.com/go-sql-driver/mysql.
type MySQL struct {
	base
}

// NewMySQL creates the MySQL adapter.
func NewMySQL() *MySQL {
	return &MySQL{base: newBase("mysql", "mysql", querysql.QuestionMark, true)}
}

// DataSourceName maps "mysql://user:pw@tcp(host:3306)/db" to the driver DSN
// "user:pw@tcp(host:3306)/db".
func (a *MySQL) DataSourceName(locator string) (string, error) {
	cfg, err := mysql.ParseDSN(trimScheme(locator, a.dialect))
	if err != nil {
		return "", fmt.Errorf("parse mysql locator: %w", err)
	}
	return cfg.FormatDSN(), nil
}

// Migrate creates the quads table if absent.
func (a *MySQL) Migrate(ctx context.Context, conn Conn) error {
	if err := execAll(ctx, conn, mysqlSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
