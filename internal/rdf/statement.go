package rdf

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidStatement is returned by Statement.Validate.
var ErrInvalidStatement = errors.New("rdf: invalid statement")

// Statement is a subject/predicate/object/context tuple.
// A nil Context means the statement belongs to no named graph.
type Statement struct {
	Subject   Term
	Predicate Term
	Object    Term
	Context   Term
}

// NewStatement creates a statement without context.
func NewStatement(subject, predicate, object Term) Statement {
	return Statement{Subject: subject, Predicate: predicate, Object: object}
}

// NewQuad creates a statement in the given context (nil for none).
func NewQuad(subject, predicate, object, context Term) Statement {
	return Statement{Subject: subject, Predicate: predicate, Object: object, Context: context}
}

// Term returns the component of s stored in column c.
func (s Statement) Term(c Column) Term {
	switch c {
	case Subject:
		return s.Subject
	case Predicate:
		return s.Predicate
	case Object:
		return s.Object
	case Context:
		return s.Context
	default:
		return nil
	}
}

// Validate checks the structural rules of a statement:
// subject and context are resources, predicate is an IRI, object is present.
func (s Statement) Validate() error {
	if !IsResource(s.Subject) {
		return fmt.Errorf("%w: subject must be an IRI or blank node, got %s", ErrInvalidStatement, describe(s.Subject))
	}
	if _, ok := s.Predicate.(IRI); !ok {
		return fmt.Errorf("%w: predicate must be an IRI, got %s", ErrInvalidStatement, describe(s.Predicate))
	}
	if s.Object == nil {
		return fmt.Errorf("%w: object is required", ErrInvalidStatement)
	}
	if s.Context != nil && !IsResource(s.Context) {
		return fmt.Errorf("%w: context must be an IRI or blank node, got %s", ErrInvalidStatement, describe(s.Context))
	}
	for _, c := range Columns {
		if err := validateTerm(s.Term(c)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidStatement, c, err)
		}
	}
	return nil
}

// validateTerm checks that t can be written as N-Triples and read back
// unchanged.
func validateTerm(t Term) error {
	switch v := t.(type) {
	case IRI:
		if !utf8.ValidString(string(v)) {
			return fmt.Errorf("IRI %q is not valid UTF-8", string(v))
		}
	case BlankNode:
		if !validBlankNodeLabel(string(v)) {
			return fmt.Errorf("invalid blank node label %q", string(v))
		}
	case Literal:
		if !utf8.ValidString(v.Value) {
			return fmt.Errorf("literal value %q is not valid UTF-8", v.Value)
		}
		if !utf8.ValidString(string(v.Datatype)) {
			return fmt.Errorf("datatype %q is not valid UTF-8", string(v.Datatype))
		}
		if v.Language != "" && v.Datatype != "" {
			return errors.New("literal has both language and datatype")
		}
		if v.Language != "" && !validLanguageTag(v.Language) {
			return fmt.Errorf("invalid language tag %q", v.Language)
		}
	}
	return nil
}

func describe(t Term) string {
	if t == nil {
		return "nothing"
	}
	return t.String()
}

// String returns the statement as an N-Quads line without trailing newline.
func (s Statement) String() string {
	var b strings.Builder
	b.WriteString(Format(s.Subject))
	b.WriteByte(' ')
	b.WriteString(Format(s.Predicate))
	b.WriteByte(' ')
	b.WriteString(Format(s.Object))
	if s.Context != nil {
		b.WriteByte(' ')
		b.WriteString(s.Context.String())
	}
	b.WriteString(" .")
	return b.String()
}
