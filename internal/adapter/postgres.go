package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/roach88/quadsql/internal/querysql"
)

var postgresSchema = []string{`
	CREATE TABLE IF NOT EXISTS quads (
		subject   TEXT NOT NULL,
		predicate TEXT NOT NULL,
		object    TEXT NOT NULL,
		context   TEXT NOT NULL
	)`,
	"CREATE INDEX IF NOT EXISTS quads_subject_idx ON quads (subject)",
	"CREATE INDEX IF NOT EXISTS quads_predicate_idx ON quads (predicate)",
	"CREATE INDEX IF NOT EXISTS quads_object_idx ON quads (object)",
	"CREATE INDEX IF NOT EXISTS quads_context_idx ON quads (context)",
}

// Postgres stores statements in PostgreSQL through github.com/lib/pq.
type Postgres struct {
	base
}

// NewPostgres creates the PostgreSQL adapter.
func NewPostgres() *Postgres {
	return &Postgres{base: newBase("postgres", "postgres", querysql.DollarNumbered, true)}
}

// DataSourceName accepts either a URL ("postgres://user@host/db") or
// "postgres:" followed by a key/value connection string.
func (a *Postgres) DataSourceName(locator string) (string, error) {
	if strings.HasPrefix(locator, "postgres://") || strings.HasPrefix(locator, "postgresql://") {
		dsn, err := pq.ParseURL(locator)
		if err != nil {
			return "", fmt.Errorf("parse postgres locator: %w", err)
		}
		return dsn, nil
	}
	rest := strings.TrimPrefix(locator, "postgresql:")
	rest = strings.TrimPrefix(rest, "postgres:")
	if strings.TrimSpace(rest) == "" {
		return "", fmt.Errorf("postgres locator %q has no connection parameters", locator)
	}
	return rest, nil
}

// Migrate creates the quads table and its indexes if absent.
func (a *Postgres) Migrate(ctx context.Context, conn Conn) error {
	if err := execAll(ctx, conn, postgresSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
