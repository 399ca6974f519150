package codec

import (
	"fmt"

	"github.com/roach88/quadsql/internal/rdf"
)

// NoValue is the cell stored for an absent term (the nil context).
const NoValue = "nil"

// Codec encodes terms to cells and back using an optional prefix table.
// The table is held by reference; changes to it affect later calls.
type Codec struct {
	prefixes *PrefixTable
}

// New creates a codec over prefixes. A nil table disables prefix compression.
func New(prefixes *PrefixTable) *Codec {
	return &Codec{prefixes: prefixes}
}

// Prefixes returns the table the codec consults.
func (c *Codec) Prefixes() *PrefixTable {
	return c.prefixes
}

// Encode converts t to its cell form.
func (c *Codec) Encode(t rdf.Term) string {
	if t == nil {
		return NoValue
	}
	if iri, ok := t.(rdf.IRI); ok && c.prefixes.Len() > 0 {
		if short, ok := c.prefixes.Shorten(string(iri)); ok {
			return short
		}
	}
	return t.String()
}

// Decode converts a cell back to a term. NoValue decodes to nil.
func (c *Codec) Decode(cell string) (rdf.Term, error) {
	if cell == NoValue {
		return nil, nil
	}
	if c.prefixes.Len() > 0 {
		if iri, ok := c.prefixes.Expand(cell); ok {
			return rdf.IRI(iri), nil
		}
	}
	t, err := rdf.ParseTerm(cell)
	if err != nil {
		return nil, fmt.Errorf("decode cell %q: %w", cell, err)
	}
	return t, nil
}

// EncodeStatement encodes the four components of s in column order.
func (c *Codec) EncodeStatement(s rdf.Statement) [4]string {
	return [4]string{
		c.Encode(s.Subject),
		c.Encode(s.Predicate),
		c.Encode(s.Object),
		c.Encode(s.Context),
	}
}

// DecodeStatement decodes four cells in column order into a statement.
func (c *Codec) DecodeStatement(cells [4]string) (rdf.Statement, error) {
	var terms [4]rdf.Term
	for i, cell := range cells {
		t, err := c.Decode(cell)
		if err != nil {
			return rdf.Statement{}, fmt.Errorf("%s: %w", rdf.Columns[i], err)
		}
		terms[i] = t
	}
	return rdf.NewQuad(terms[0], terms[1], terms[2], terms[3]), nil
}
