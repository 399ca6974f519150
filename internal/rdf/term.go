package rdf

import "strings"

// Term is a sealed interface representing a graph value.
// Only IRI, BlankNode and Literal implement it.
type Term interface {
	// String returns the canonical N-Triples form of the term.
	String() string
	rdfTerm()
}

// IRI is a resource identifier.
type IRI string

func (IRI) rdfTerm() {}

// String returns the IRI in angle brackets with N-Triples escaping applied.
func (i IRI) String() string {
	var b strings.Builder
	b.Grow(len(i) + 2)
	b.WriteByte('<')
	writeIRI(&b, string(i))
	b.WriteByte('>')
	return b.String()
}

// BlankNode is a graph-local resource identified by its label.
type BlankNode string

func (BlankNode) rdfTerm() {}

// String returns the blank node as "_:label".
func (n BlankNode) String() string {
	return "_:" + string(n)
}

// Literal is a lexical value with an optional language tag or datatype.
// A literal carries at most one of Language and Datatype.
type Literal struct {
	Value    string
	Language string
	Datatype IRI
}

func (Literal) rdfTerm() {}

// String returns the quoted literal followed by "@lang" or "^^<datatype>".
func (l Literal) String() string {
	var b strings.Builder
	b.Grow(len(l.Value) + 2)
	b.WriteByte('"')
	writeString(&b, l.Value)
	b.WriteByte('"')
	switch {
	case l.Language != "":
		b.WriteByte('@')
		b.WriteString(l.Language)
	case l.Datatype != "":
		b.WriteString("^^")
		b.WriteString(l.Datatype.String())
	}
	return b.String()
}

// NewLiteral creates a plain literal.
func NewLiteral(value string) Literal {
	return Literal{Value: value}
}

// NewLangLiteral creates a language-tagged literal.
func NewLangLiteral(value, language string) Literal {
	return Literal{Value: value, Language: language}
}

// NewTypedLiteral creates a literal with an explicit datatype.
func NewTypedLiteral(value string, datatype IRI) Literal {
	return Literal{Value: value, Datatype: datatype}
}

// IsResource reports whether t identifies a resource (IRI or blank node).
func IsResource(t Term) bool {
	switch t.(type) {
	case IRI, BlankNode:
		return true
	default:
		return false
	}
}

// Equal reports whether two terms, either of which may be nil, are identical.
func Equal(a, b Term) bool {
	return a == b
}

// Format returns the canonical form of t, or "" for the nil term.
func Format(t Term) string {
	if t == nil {
		return ""
	}
	return t.String()
}
