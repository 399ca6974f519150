package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/quadsql/internal/adapter"
	"github.com/roach88/quadsql/internal/codec"
	"github.com/roach88/quadsql/internal/config"
	"github.com/roach88/quadsql/internal/rdf"
)

// MaxBatchRows caps the rows sent in one multi-row INSERT. Larger inserts
// are split into several statements.
const MaxBatchRows = 1000

var _ rdf.Repository = (*Store)(nil)

// Store is a statement store over one SQL connection.
type Store struct {
	db      *sql.DB
	conn    *sql.Conn
	adapter adapter.Adapter
	codec   *codec.Codec
}

// Open opens a store at locator with no prefix table.
func Open(ctx context.Context, locator string) (*Store, error) {
	return New(ctx, config.Config{DB: locator})
}

// OpenMemory opens a private in-memory SQLite store.
func OpenMemory(ctx context.Context) (*Store, error) {
	return New(ctx, config.Config{})
}

// New opens a store from cfg. It selects the adapter, connects, and
// migrates the schema.
//
// The dialect is cfg.Adapter when set, otherwise the locator's scheme.
// An empty locator opens config.DefaultLocator.
func New(ctx context.Context, cfg config.Config) (*Store, error) {
	prefixes, err := codec.NewPrefixTable(cfg.Prefixes...)
	if err != nil {
		return nil, &Error{Code: ErrCodeConfiguration, Op: "open", Err: err}
	}

	locator := cfg.Locator()
	dialect := cfg.Adapter
	if dialect == "" {
		if dialect, err = adapter.DialectOf(locator); err != nil {
			return nil, &Error{Code: ErrCodeConfiguration, Op: "open", Err: err}
		}
	}

	a, err := adapter.Lookup(dialect)
	if err != nil {
		return nil, &Error{Code: ErrCodeConfiguration, Op: "open", Dialect: dialect, Err: err}
	}
	if cfg.Adapter != "" {
		locator = withScheme(locator, a.Dialect())
	}

	dsn, err := a.DataSourceName(locator)
	if err != nil {
		return nil, &Error{Code: ErrCodeConfiguration, Op: "open", Dialect: a.Dialect(), Err: err}
	}

	db, err := sql.Open(a.DriverName(), dsn)
	if err != nil {
		return nil, &Error{Code: ErrCodeConfiguration, Op: "open", Dialect: a.Dialect(), Err: err}
	}

	// The store holds its one connection for life. An in-memory SQLite
	// database only exists on that connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, &Error{Code: ErrCodeConfiguration, Op: "connect", Dialect: a.Dialect(), Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, &Error{Code: ErrCodeConfiguration, Op: "connect", Dialect: a.Dialect(), Err: err}
	}

	if err := a.Migrate(ctx, conn); err != nil {
		conn.Close()
		db.Close()
		return nil, &Error{Code: ErrCodeSchema, Op: "migrate", Dialect: a.Dialect(), Err: err}
	}

	return &Store{
		db:      db,
		conn:    conn,
		adapter: a,
		codec:   codec.New(prefixes),
	}, nil
}

// withScheme replaces the dialect scheme of locator, or prepends one when
// the locator has none.
func withScheme(locator, dialect string) string {
	scheme, err := adapter.DialectOf(locator)
	if err != nil {
		return dialect + ":" + locator
	}
	return dialect + locator[len(scheme):]
}

// Adapter returns the adapter selected at construction.
func (s *Store) Adapter() adapter.Adapter {
	return s.adapter
}

// Prefixes returns the store's prefix table. Changing it affects how later
// operations encode and decode; rows written under other prefixes may no
// longer decode.
func (s *Store) Prefixes() *codec.PrefixTable {
	return s.codec.Prefixes()
}

// Close releases the store's connection. Closing a closed store is a no-op.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return &Error{Code: ErrCodeExecution, Op: "close", Dialect: s.adapter.Dialect(), Err: err}
	}
	return nil
}

// Dispose closes the store and the database handle beneath it.
func (s *Store) Dispose() error {
	closeErr := s.Close()
	if s.db == nil {
		return closeErr
	}
	err := s.db.Close()
	s.db = nil
	if closeErr != nil {
		return closeErr
	}
	if err != nil {
		return &Error{Code: ErrCodeExecution, Op: "dispose", Dialect: s.adapter.Dialect(), Err: err}
	}
	return nil
}

// connection returns the live connection or ErrClosed.
func (s *Store) connection(op string) (*sql.Conn, error) {
	if s.conn == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return s.conn, nil
}

func (s *Store) execError(op string, err error) error {
	return &Error{Code: ErrCodeExecution, Op: op, Dialect: s.adapter.Dialect(), Err: err}
}

func (s *Store) decodeError(op string, err error) error {
	return &Error{Code: ErrCodeDecode, Op: op, Dialect: s.adapter.Dialect(), Err: err}
}
