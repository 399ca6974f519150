package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/quadsql/internal/codec"
	"github.com/roach88/quadsql/internal/config"
	"github.com/roach88/quadsql/internal/rdf"
	"github.com/roach88/quadsql/internal/testutil"
)

// createTestStore opens a file-backed SQLite store in a temp directory.
func createTestStore(t *testing.T, prefixes ...codec.Prefix) *Store {
	t.Helper()
	return createTestStoreWith(t, config.Config{Prefixes: prefixes})
}

// createTestStoreWith fills in a temp database path when cfg.DB is empty.
func createTestStoreWith(t *testing.T, cfg config.Config) *Store {
	t.Helper()
	if cfg.DB == "" {
		cfg.DB = "sqlite3:" + filepath.Join(t.TempDir(), "test.db")
	}
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Dispose() })
	return s
}

var exPrefix = codec.Prefix{Label: "ex", Stem: testutil.ExampleStem}

func collectStatements(t *testing.T, s *Store) []rdf.Statement {
	t.Helper()
	got, err := rdf.Collect(s.Each(context.Background()))
	require.NoError(t, err)
	return got
}

func collectQuery(t *testing.T, s *Store, p rdf.Pattern) []rdf.Statement {
	t.Helper()
	got, err := rdf.Collect(s.Query(context.Background(), p))
	require.NoError(t, err)
	return got
}

func mustCount(t *testing.T, s *Store) int64 {
	t.Helper()
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	return n
}

// cells reads the raw rows of the quads table.
func cells(t *testing.T, s *Store) [][4]string {
	t.Helper()
	rows, err := s.conn.QueryContext(context.Background(),
		"SELECT subject, predicate, object, context FROM quads ORDER BY subject, predicate, object, context")
	require.NoError(t, err)
	defer rows.Close()

	var out [][4]string
	for rows.Next() {
		var c [4]string
		require.NoError(t, rows.Scan(&c[0], &c[1], &c[2], &c[3]))
		out = append(out, c)
	}
	require.NoError(t, rows.Err())
	return out
}
