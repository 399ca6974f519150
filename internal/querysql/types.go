package querysql

import "github.com/roach88/quadsql/internal/rdf"

// Query is a sealed interface over the statement shapes the compiler supports.
type Query interface {
	query()
}

// Select scans Columns from the table. An empty Columns list selects all
// four statement columns in storage order.
type Select struct {
	Columns  []rdf.Column
	Distinct bool
	Filter   Predicate
}

func (Select) query() {}

// Count returns a single row holding the number of matching rows.
type Count struct {
	Filter Predicate
}

func (Count) query() {}

// Insert adds Rows rows of four columns each. Rows greater than one produces
// a multi-row VALUES list; parameters are supplied in row-major order.
type Insert struct {
	Rows int
}

func (Insert) query() {}

// Delete removes rows matching Filter. A nil Filter is rejected.
type Delete struct {
	Filter Predicate
}

func (Delete) query() {}

// Predicate is a sealed interface over WHERE clause fragments.
type Predicate interface {
	predicate()
}

// Equals compares a column with a value known at compile time.
type Equals struct {
	Column rdf.Column
	Value  string
}

func (Equals) predicate() {}

// BoundEquals compares a column with a placeholder whose value is supplied
// when the statement is executed.
type BoundEquals struct {
	Column rdf.Column
}

func (BoundEquals) predicate() {}

// And is a conjunction. An empty conjunction matches every row.
type And struct {
	Predicates []Predicate
}

func (And) predicate() {}

// MatchCells builds a conjunction of Equals over the bound cells, in storage
// column order. Columns missing from cells are left unconstrained.
func MatchCells(cells map[rdf.Column]string) And {
	var and And
	for _, c := range rdf.Columns {
		if v, ok := cells[c]; ok {
			and.Predicates = append(and.Predicates, Equals{Column: c, Value: v})
		}
	}
	return and
}

// MatchAllBound builds a conjunction of BoundEquals over all four columns.
func MatchAllBound() And {
	var and And
	for _, c := range rdf.Columns {
		and.Predicates = append(and.Predicates, BoundEquals{Column: c})
	}
	return and
}
