package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quadsql/internal/adapter"
	"github.com/roach88/quadsql/internal/codec"
	"github.com/roach88/quadsql/internal/config"
	"github.com/roach88/quadsql/internal/rdf"
	"github.com/roach88/quadsql/internal/testutil"
)

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenMemory(ctx)
	require.NoError(t, err)
	defer s.Dispose()

	assert.Equal(t, "sqlite3", s.Adapter().Dialect())
	assert.Equal(t, 0, s.Prefixes().Len())

	empty, err := s.Empty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, s.Insert(ctx, testutil.Sample()...))
	assert.Equal(t, int64(len(testutil.Sample())), mustCount(t, s))
}

func TestOpenMemory_Private(t *testing.T) {
	ctx := context.Background()
	a, err := OpenMemory(ctx)
	require.NoError(t, err)
	defer a.Dispose()
	b, err := OpenMemory(ctx)
	require.NoError(t, err)
	defer b.Dispose()

	require.NoError(t, a.Insert(ctx, testutil.Sample()...))
	assert.Equal(t, int64(0), mustCount(t, b))
}

func TestOpen_Drivers(t *testing.T) {
	for _, dialect := range []string{"sqlite3", "sqlite"} {
		t.Run(dialect, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "quads.db")

			s, err := Open(ctx, dialect+":"+path)
			require.NoError(t, err)
			assert.Equal(t, dialect, s.Adapter().Dialect())
			require.NoError(t, s.Insert(ctx, testutil.Sample()...))
			require.NoError(t, s.Dispose())

			// Reopening runs Migrate again on an existing schema.
			s, err = Open(ctx, dialect+":"+path)
			require.NoError(t, err)
			defer s.Dispose()
			assert.Equal(t, testutil.Sorted(testutil.Sample()), testutil.Sorted(collectStatements(t, s)))
		})
	}
}

func TestNew_AdapterOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quads.db")
	s := createTestStoreWith(t, config.Config{DB: "sqlite3:" + path, Adapter: "sqlite"})
	assert.Equal(t, "sqlite", s.Adapter().Dialect())
	assert.FileExists(t, path)

	bare := createTestStoreWith(t, config.Config{DB: filepath.Join(t.TempDir(), "bare.db"), Adapter: "sqlite3"})
	assert.Equal(t, "sqlite3", bare.Adapter().Dialect())
}

func TestNew_Prefixes(t *testing.T) {
	s := createTestStore(t, exPrefix)
	stem, ok := s.Prefixes().Lookup("ex")
	require.True(t, ok)
	assert.Equal(t, testutil.ExampleStem, stem)
}

func TestNew_ConfigurationErrors(t *testing.T) {
	missingDir := filepath.Join(t.TempDir(), "missing", "quads.db")

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"unknown dialect", config.Config{DB: "oracle://scott@db/orcl"}, "unknown dialect"},
		{"unknown adapter override", config.Config{Adapter: "oracle"}, "unknown dialect"},
		{"no scheme", config.Config{DB: "quads.db"}, "no dialect scheme"},
		{"duplicate prefix", config.Config{Prefixes: []codec.Prefix{exPrefix, exPrefix}}, "duplicate label"},
		{"unreachable database", config.Config{DB: "sqlite3:" + missingDir}, "connect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, IsConfigurationError(err), "got %v", err)
			assert.False(t, IsSchemaError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_UnknownDialectWrapsSentinel(t *testing.T) {
	_, err := Open(context.Background(), "oracle://db")
	assert.ErrorIs(t, err, adapter.ErrUnknownDialect)

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "open", se.Op)
	assert.Equal(t, "oracle", se.Dialect)
}

// brokenMigrate is a SQLite adapter whose schema setup always fails.
type brokenMigrate struct {
	*adapter.SQLite
}

func (brokenMigrate) Migrate(context.Context, adapter.Conn) error {
	return errors.New("permission denied")
}

func TestNew_SchemaError(t *testing.T) {
	const dialect = "test-broken-migrate"
	require.NoError(t, adapter.Register(dialect, func() adapter.Adapter {
		return brokenMigrate{adapter.NewSQLite3()}
	}))
	t.Cleanup(func() { adapter.Unregister(dialect) })

	_, err := New(context.Background(), config.Config{Adapter: dialect})
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.False(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "permission denied")
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.Insert(ctx, testutil.Sample()...))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	assert.ErrorIs(t, s.Insert(ctx, testutil.Sample()...), ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, testutil.Sample()...), ErrClosed)

	_, err := s.Count(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Empty(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Has(ctx, testutil.Sample()[0])
	assert.ErrorIs(t, err, ErrClosed)

	_, err = rdf.Collect(s.Each(ctx))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = rdf.Collect(s.Query(ctx, nil))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = rdf.Collect(s.EachContext(ctx))
	assert.ErrorIs(t, err, ErrClosed)

	require.NoError(t, s.Dispose())
	require.NoError(t, s.Dispose())
}

func TestDispose(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.Dispose())

	assert.ErrorIs(t, s.Insert(ctx, testutil.Sample()...), ErrClosed)
	require.NoError(t, s.Close())
}

func TestErrorFormat(t *testing.T) {
	err := &Error{Code: ErrCodeExecution, Op: "insert", Dialect: "sqlite3", Err: errors.New("disk full")}
	assert.Equal(t, "EXECUTION: insert (sqlite3): disk full", err.Error())

	err = &Error{Code: ErrCodeConfiguration, Op: "open", Err: errors.New("bad locator")}
	assert.Equal(t, "CONFIGURATION: open: bad locator", err.Error())
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsExecutionError(err))
	assert.False(t, IsDecodeError(errors.New("plain")))
}
