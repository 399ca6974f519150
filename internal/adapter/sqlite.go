package adapter

import (
	"context"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/roach88/quadsql/internal/querysql"
)

// MemoryPath is the SQLite path of a private in-memory database.
const MemoryPath = ":memory:"

// Schema version tracking (PRAGMA user_version):
// 0 - quads table only
// 1 - per-column lookup indexes
const sqliteSchemaVersion = 1

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
}

var sqliteSchema = []string{`
	CREATE TABLE IF NOT EXISTS quads (
		subject   TEXT NOT NULL,
		predicate TEXT NOT NULL,
		object    TEXT NOT NULL,
		context   TEXT NOT NULL
	)`,
}

var sqliteIndexes = []string{
	"CREATE INDEX IF NOT EXISTS quads_subject_idx ON quads (subject)",
	"CREATE INDEX IF NOT EXISTS quads_predicate_idx ON quads (predicate)",
	"CREATE INDEX IF NOT EXISTS quads_object_idx ON quads (object)",
	"CREATE INDEX IF NOT EXISTS quads_context_idx ON quads (context)",
}

// SQLite stores statements in a SQLite database. The same SQL serves both
// the cgo driver (dialect "sqlite3") and the pure Go driver (dialect "sqlite").
type SQLite struct {
	base
}

// NewSQLite3 creates the adapter for github.com/mattn/go-sqlite3.
func NewSQLite3() *SQLite {
	return &SQLite{base: newBase("sqlite3", "sqlite3", querysql.QuestionMark, true)}
}

// NewSQLite creates the adapter for modernc.org/sqlite.
func NewSQLite() *SQLite {
	return &SQLite{base: newBase("sqlite", "sqlite", querysql.QuestionMark, true)}
}

// DataSourceName maps "sqlite3:<path>" to <path>. An empty path or
// ":memory:" opens a private in-memory database.
func (a *SQLite) DataSourceName(locator string) (string, error) {
	path := trimScheme(locator, a.dialect)
	if path == "" {
		return MemoryPath, nil
	}
	return path, nil
}

// Migrate applies pragmas, creates the quads table, and runs incremental
// migrations based on user_version.
func (a *SQLite) Migrate(ctx context.Context, conn Conn) error {
	if err := execAll(ctx, conn, sqlitePragmas); err != nil {
		return fmt.Errorf("apply pragmas: %w", err)
	}
	if err := execAll(ctx, conn, sqliteSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	version, err := sqliteUserVersion(ctx, conn)
	if err != nil {
		return err
	}
	if version < 1 {
		if err := execAll(ctx, conn, sqliteIndexes); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func sqliteUserVersion(ctx context.Context, conn Conn) (int, error) {
	rows, err := conn.QueryContext(ctx, "PRAGMA user_version")
	if err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	defer rows.Close()

	var version int
	if rows.Next() {
		if err := rows.Scan(&version); err != nil {
			return 0, fmt.Errorf("get user_version: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}
