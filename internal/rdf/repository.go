package rdf

import (
	"context"
	"iter"
)

// Enumerable is a statement collection that can be scanned and counted.
type Enumerable interface {
	// Each yields every statement. Iteration stops at the first error.
	Each(ctx context.Context) iter.Seq2[Statement, error]
	// Count returns the number of statements without materializing them.
	Count(ctx context.Context) (int64, error)
}

// Mutable is a statement collection that accepts writes.
type Mutable interface {
	Insert(ctx context.Context, statements ...Statement) error
	Delete(ctx context.Context, statements ...Statement) error
}

// Queryable is a statement collection that supports pattern queries.
type Queryable interface {
	Query(ctx context.Context, pattern Pattern) iter.Seq2[Statement, error]
}

// Repository is the full graph-storage contract: enumerable, mutable and
// queryable. Generic graph code should depend on this interface rather than
// a concrete store.
type Repository interface {
	Enumerable
	Mutable
	Queryable
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
