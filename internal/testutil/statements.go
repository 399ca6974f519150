// Package testutil holds statement fixtures shared by package tests.
package testutil

import (
	"fmt"
	"slices"

	"github.com/roach88/quadsql/internal/rdf"
)

// ExampleStem is the IRI stem of the ex: fixtures.
const ExampleStem = "http://example.org/"

// Ex returns the IRI ExampleStem + name.
func Ex(name string) rdf.IRI {
	return rdf.IRI(ExampleStem + name)
}

var (
	Alice  = Ex("Alice")
	Bob    = Ex("Bob")
	Carol  = Ex("Carol")
	Knows  = Ex("knows")
	Name   = Ex("name")
	Age    = Ex("age")
	Graph1 = Ex("graph1")
	Graph2 = Ex("graph2")
)

// Sample returns a small graph covering every term kind: IRIs, blank
// nodes, plain, language-tagged and typed literals, with and without
// context.
func Sample() []rdf.Statement {
	return []rdf.Statement{
		rdf.NewStatement(Alice, Knows, Bob),
		rdf.NewStatement(Bob, Knows, Carol),
		rdf.NewQuad(Alice, Name, rdf.NewLiteral("Alice"), Graph1),
		rdf.NewQuad(Bob, Name, rdf.NewLangLiteral("Robert", "en"), Graph1),
		rdf.NewQuad(Carol, Age, rdf.NewTypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer"), Graph2),
		rdf.NewQuad(rdf.BlankNode("b0"), Knows, Alice, Graph2),
		rdf.NewStatement(Carol, Name, rdf.NewLiteral("line\nbreak \"quoted\"")),
	}
}

// Generate returns n distinct statements. Every third statement has no
// context.
func Generate(n int) []rdf.Statement {
	out := make([]rdf.Statement, n)
	for i := range out {
		var ctx rdf.Term
		if i%3 != 0 {
			ctx = Ex(fmt.Sprintf("graph%d", i%2))
		}
		out[i] = rdf.NewQuad(
			Ex(fmt.Sprintf("s%d", i)),
			Ex(fmt.Sprintf("p%d", i%5)),
			rdf.NewLiteral(fmt.Sprintf("value %d", i)),
			ctx,
		)
	}
	return out
}

// Sorted returns the N-Quads lines of statements in sorted order, for
// order-independent comparison.
func Sorted(statements []rdf.Statement) []string {
	lines := make([]string, len(statements))
	for i, st := range statements {
		lines[i] = st.String()
	}
	slices.Sort(lines)
	return lines
}

// SortedTerms returns the N-Triples text of terms in sorted order.
func SortedTerms(terms []rdf.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = rdf.Format(t)
	}
	slices.Sort(out)
	return out
}
