package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/quadsql/internal/querysql"
	"github.com/roach88/quadsql/internal/rdf"
)

// Conn is the part of a database connection an adapter needs.
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Adapter produces dialect-specific SQL for the quads table.
type Adapter interface {
	// Dialect returns the registry name of the adapter.
	Dialect() string

	// DriverName returns the database/sql driver the adapter expects.
	DriverName() string

	// DataSourceName converts a connection locator to a driver DSN.
	DataSourceName(locator string) (string, error)

	// Migrate creates the schema if absent. It is idempotent.
	Migrate(ctx context.Context, conn Conn) error

	// InsertSQL inserts one row: subject, predicate, object, context.
	InsertSQL() string

	// MultipleInsertSQL inserts n rows in one statement with 4n parameters in
	// row-major order. ok is false when the dialect has no batch insert; the
	// caller must then issue n single-row inserts.
	MultipleInsertSQL(n int) (query string, ok bool)

	// DeleteSQL deletes rows equal on all four columns.
	DeleteSQL() string

	// EachSQL scans all rows, returning the four columns in storage order.
	EachSQL() string

	EachSubjectSQL() string
	EachPredicateSQL() string
	EachObjectSQL() string
	EachContextSQL() string

	// CountSQL returns one row with one column: the number of rows.
	CountSQL() string

	// Query executes a scan constrained by equality on the bound cells.
	// Rows have the same shape as EachSQL.
	Query(ctx context.Context, conn Conn, cells map[rdf.Column]string) (*sql.Rows, error)
}

// base implements every SQL-text operation of Adapter through a
// querysql.SQLCompiler. Dialects embed it and add DSN handling and Migrate.
type base struct {
	dialect  string
	driver   string
	compiler *querysql.SQLCompiler
	batch    bool

	insertSQL string
	deleteSQL string
	eachSQL   string
	countSQL  string
	columnSQL map[rdf.Column]string
}

func newBase(dialect, driver string, style querysql.PlaceholderStyle, batch bool) base {
	c := querysql.NewSQLCompiler(style)
	b := base{
		dialect:   dialect,
		driver:    driver,
		compiler:  c,
		batch:     batch,
		insertSQL: c.MustCompile(querysql.Insert{Rows: 1}),
		deleteSQL: c.MustCompile(querysql.Delete{Filter: querysql.MatchAllBound()}),
		eachSQL:   c.MustCompile(querysql.Select{}),
		countSQL:  c.MustCompile(querysql.Count{}),
		columnSQL: make(map[rdf.Column]string, len(rdf.Columns)),
	}
	for _, col := range rdf.Columns {
		b.columnSQL[col] = c.MustCompile(querysql.Select{Columns: []rdf.Column{col}, Distinct: true})
	}
	return b
}

func (b *base) Dialect() string    { return b.dialect }
func (b *base) DriverName() string { return b.driver }
func (b *base) InsertSQL() string  { return b.insertSQL }
func (b *base) DeleteSQL() string  { return b.deleteSQL }
func (b *base) EachSQL() string    { return b.eachSQL }
func (b *base) CountSQL() string   { return b.countSQL }

func (b *base) EachSubjectSQL() string   { return b.columnSQL[rdf.Subject] }
func (b *base) EachPredicateSQL() string { return b.columnSQL[rdf.Predicate] }
func (b *base) EachObjectSQL() string    { return b.columnSQL[rdf.Object] }
func (b *base) EachContextSQL() string   { return b.columnSQL[rdf.Context] }

func (b *base) MultipleInsertSQL(n int) (string, bool) {
	if !b.batch || n < 1 {
		return "", false
	}
	query, _, err := b.compiler.Compile(querysql.Insert{Rows: n})
	if err != nil {
		return "", false
	}
	return query, true
}

func (b *base) Query(ctx context.Context, conn Conn, cells map[rdf.Column]string) (*sql.Rows, error) {
	query, params, err := b.compiler.Compile(querysql.Select{Filter: querysql.MatchCells(cells)})
	if err != nil {
		return nil, fmt.Errorf("%s: compile query: %w", b.dialect, err)
	}
	return conn.QueryContext(ctx, query, params...)
}

// execAll runs each statement in order, stopping at the first failure.
func execAll(ctx context.Context, conn Conn, statements []string) error {
	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// trimScheme removes "dialect:" and an optional "//" from a locator.
func trimScheme(locator, dialect string) string {
	rest := strings.TrimPrefix(locator, dialect+":")
	return strings.TrimPrefix(rest, "//")
}
