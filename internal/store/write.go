package store

import (
	"context"
	"fmt"

	"github.com/roach88/quadsql/internal/rdf"
)

// Insert stores statements. When the adapter supports multi-row inserts
// the statements are written in batches of at most MaxBatchRows; otherwise
// one INSERT is issued per statement, in order.
//
// Duplicates are stored as duplicate rows. A failure partway through
// leaves earlier rows written.
func (s *Store) Insert(ctx context.Context, statements ...rdf.Statement) error {
	conn, err := s.connection("insert")
	if err != nil {
		return err
	}
	for i, st := range statements {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("insert statement %d: %w", i, err)
		}
	}

	for start := 0; start < len(statements); start += MaxBatchRows {
		chunk := statements[start:min(start+MaxBatchRows, len(statements))]

		query, ok := s.adapter.MultipleInsertSQL(len(chunk))
		if !ok {
			if err := s.insertEach(ctx, chunk); err != nil {
				return err
			}
			continue
		}

		args := make([]any, 0, 4*len(chunk))
		for _, st := range chunk {
			args = appendCells(args, s.codec.EncodeStatement(st))
		}
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return s.execError("insert", err)
		}
	}
	return nil
}

// insertEach is the single-row path for adapters without batch inserts.
func (s *Store) insertEach(ctx context.Context, statements []rdf.Statement) error {
	query := s.adapter.InsertSQL()
	for _, st := range statements {
		args := appendCells(nil, s.codec.EncodeStatement(st))
		if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
			return s.execError("insert", err)
		}
	}
	return nil
}

// Delete removes every row equal to each statement, in order. Deleting a
// statement that is not stored is not an error.
func (s *Store) Delete(ctx context.Context, statements ...rdf.Statement) error {
	conn, err := s.connection("delete")
	if err != nil {
		return err
	}
	query := s.adapter.DeleteSQL()
	for _, st := range statements {
		args := appendCells(nil, s.codec.EncodeStatement(st))
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return s.execError("delete", err)
		}
	}
	return nil
}

func appendCells(args []any, cells [4]string) []any {
	for _, c := range cells {
		args = append(args, c)
	}
	return args
}
