package rdf

import "fmt"

// Column names one of the four statement positions.
// The value doubles as the SQL column name.
type Column string

const (
	Subject   Column = "subject"
	Predicate Column = "predicate"
	Object    Column = "object"
	Context   Column = "context"
)

// Columns lists every column in storage order.
var Columns = []Column{Subject, Predicate, Object, Context}

// Valid reports whether c is one of the four statement columns.
func (c Column) Valid() bool {
	switch c {
	case Subject, Predicate, Object, Context:
		return true
	default:
		return false
	}
}

// ParseColumn converts a column name to a Column.
func ParseColumn(name string) (Column, error) {
	c := Column(name)
	if !c.Valid() {
		return "", fmt.Errorf("unknown column %q: must be one of %v", name, Columns)
	}
	return c, nil
}

// Pattern constrains a subset of the statement columns to constant terms.
// Columns absent from the map are wildcards. A Context key mapped to nil
// matches only statements without context.
type Pattern map[Column]Term

// Validate rejects keys that are not statement columns.
func (p Pattern) Validate() error {
	for c := range p {
		if !c.Valid() {
			return fmt.Errorf("invalid pattern column %q", string(c))
		}
	}
	return nil
}

// Matches reports whether s agrees with p on every bound column.
func (p Pattern) Matches(s Statement) bool {
	for c, t := range p {
		if !Equal(s.Term(c), t) {
			return false
		}
	}
	return true
}

// Bound returns the bound columns of p in storage order.
func (p Pattern) Bound() []Column {
	bound := make([]Column, 0, len(p))
	for _, c := range Columns {
		if _, ok := p[c]; ok {
			bound = append(bound, c)
		}
	}
	return bound
}
