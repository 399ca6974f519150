// Package rdf provides the graph value types persisted by quadsql.
//
// This package contains the term model, the statement and pattern types, and
// the canonical N-Triples text form of a term. It imports nothing internal;
// every other package builds on it.
//
// Key design constraints:
//   - Term is sealed: only IRI, BlankNode and Literal implement it
//   - The absent context is a nil Term, never a placeholder value
//   - Terms are comparable values, so Statement can be compared with ==
//   - Term.String and ParseTerm are exact inverses for every valid term
package rdf
