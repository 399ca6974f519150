package store

import (
	"context"
	"database/sql"
	"iter"

	"github.com/roach88/quadsql/internal/rdf"
)

// Each yields every stored statement in backend scan order.
func (s *Store) Each(ctx context.Context) iter.Seq2[rdf.Statement, error] {
	return s.scanStatements("each", func(conn *sql.Conn) (*sql.Rows, error) {
		return conn.QueryContext(ctx, s.adapter.EachSQL())
	})
}

// Query yields the statements that agree with pattern on every bound column.
func (s *Store) Query(ctx context.Context, pattern rdf.Pattern) iter.Seq2[rdf.Statement, error] {
	if err := pattern.Validate(); err != nil {
		return func(yield func(rdf.Statement, error) bool) {
			yield(rdf.Statement{}, err)
		}
	}
	return s.scanStatements("query", func(conn *sql.Conn) (*sql.Rows, error) {
		cells := make(map[rdf.Column]string, len(pattern))
		for c, t := range pattern {
			cells[c] = s.codec.Encode(t)
		}
		return s.adapter.Query(ctx, conn, cells)
	})
}

// Has reports whether at least one row equals st.
func (s *Store) Has(ctx context.Context, st rdf.Statement) (bool, error) {
	pattern := rdf.Pattern{
		rdf.Subject:   st.Subject,
		rdf.Predicate: st.Predicate,
		rdf.Object:    st.Object,
		rdf.Context:   st.Context,
	}
	for _, err := range s.Query(ctx, pattern) {
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// EachSubject yields the distinct subjects.
func (s *Store) EachSubject(ctx context.Context) iter.Seq2[rdf.Term, error] {
	return s.scanTerms(ctx, "each subject", s.adapter.EachSubjectSQL(), false)
}

// EachPredicate yields the distinct predicates.
func (s *Store) EachPredicate(ctx context.Context) iter.Seq2[rdf.Term, error] {
	return s.scanTerms(ctx, "each predicate", s.adapter.EachPredicateSQL(), false)
}

// EachObject yields the distinct objects.
func (s *Store) EachObject(ctx context.Context) iter.Seq2[rdf.Term, error] {
	return s.scanTerms(ctx, "each object", s.adapter.EachObjectSQL(), false)
}

// EachContext yields the distinct contexts. Statements without a context
// contribute nothing.
func (s *Store) EachContext(ctx context.Context) iter.Seq2[rdf.Term, error] {
	return s.scanTerms(ctx, "each context", s.adapter.EachContextSQL(), true)
}

// Count returns the number of stored rows.
func (s *Store) Count(ctx context.Context) (int64, error) {
	conn, err := s.connection("count")
	if err != nil {
		return 0, err
	}
	var n int64
	if err := conn.QueryRowContext(ctx, s.adapter.CountSQL()).Scan(&n); err != nil {
		return 0, s.execError("count", err)
	}
	return n, nil
}

// Empty reports whether the store holds no rows.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// scanStatements runs open and decodes four-column rows. The rows are
// closed when the consumer stops iterating.
func (s *Store) scanStatements(op string, open func(*sql.Conn) (*sql.Rows, error)) iter.Seq2[rdf.Statement, error] {
	return func(yield func(rdf.Statement, error) bool) {
		conn, err := s.connection(op)
		if err != nil {
			yield(rdf.Statement{}, err)
			return
		}
		rows, err := open(conn)
		if err != nil {
			yield(rdf.Statement{}, s.execError(op, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var cells [4]string
			if err := rows.Scan(&cells[0], &cells[1], &cells[2], &cells[3]); err != nil {
				yield(rdf.Statement{}, s.execError(op, err))
				return
			}
			st, err := s.codec.DecodeStatement(cells)
			if err != nil {
				yield(rdf.Statement{}, s.decodeError(op, err))
				return
			}
			if !yield(st, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(rdf.Statement{}, s.execError(op, err))
		}
	}
}

// scanTerms runs a one-column query and decodes each cell.
func (s *Store) scanTerms(ctx context.Context, op, query string, skipNil bool) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		conn, err := s.connection(op)
		if err != nil {
			yield(nil, err)
			return
		}
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			yield(nil, s.execError(op, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var cell string
			if err := rows.Scan(&cell); err != nil {
				yield(nil, s.execError(op, err))
				return
			}
			t, err := s.codec.Decode(cell)
			if err != nil {
				yield(nil, s.decodeError(op, err))
				return
			}
			if t == nil && skipNil {
				continue
			}
			if !yield(t, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, s.execError(op, err))
		}
	}
}
