package rdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = IRI("http://example.org/Alice")
	bob   = IRI("http://example.org/Bob")
	knows = IRI("http://example.org/knows")
	graph = IRI("http://example.org/graph")
)

func TestStatement_Validate(t *testing.T) {
	tests := []struct {
		name    string
		stmt    Statement
		wantErr bool
	}{
		{"triple", NewStatement(alice, knows, bob), false},
		{"quad", NewQuad(alice, knows, bob, graph), false},
		{"blank subject", NewStatement(BlankNode("b0"), knows, NewLiteral("x")), false},
		{"blank context", NewQuad(alice, knows, bob, BlankNode("g")), false},
		{"missing subject", NewStatement(nil, knows, bob), true},
		{"literal subject", NewStatement(NewLiteral("x"), knows, bob), true},
		{"blank predicate", NewStatement(alice, BlankNode("p"), bob), true},
		{"missing object", NewStatement(alice, knows, nil), true},
		{"literal context", NewQuad(alice, knows, bob, NewLiteral("g")), true},
		{"empty blank node", NewStatement(BlankNode(""), knows, bob), true},
		{"lang and datatype", NewStatement(alice, knows, Literal{Value: "x", Language: "en", Datatype: "http://example.org/t"}), true},
		{"bad language", NewStatement(alice, knows, NewLangLiteral("x", "-en")), true},
		{"dotted blank node", NewStatement(BlankNode("node.with.dots"), knows, bob), false},
		{"blank node starting with digit", NewStatement(BlankNode("0b"), knows, bob), false},
		{"unicode blank node", NewStatement(BlankNode("nœud"), knows, bob), false},
		{"blank node ending with dot", NewStatement(BlankNode("b."), knows, bob), true},
		{"blank node starting with dash", NewStatement(BlankNode("-b"), knows, bob), true},
		{"blank node with hash", NewStatement(alice, knows, BlankNode("a#b")), true},
		{"blank node with space", NewQuad(alice, knows, bob, BlankNode("a b")), true},
		{"invalid UTF-8 literal", NewStatement(alice, knows, NewLiteral("a\xffb")), true},
		{"invalid UTF-8 IRI", NewStatement(IRI("http://example.org/\xff"), knows, bob), true},
		{"invalid UTF-8 datatype", NewStatement(alice, knows, NewTypedLiteral("1", "http://example.org/\xfe")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stmt.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidStatement))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStatement_String(t *testing.T) {
	assert.Equal(t,
		"<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> .",
		NewStatement(alice, knows, bob).String())
	assert.Equal(t,
		`<http://example.org/Alice> <http://example.org/knows> "Bob"@en <http://example.org/graph> .`,
		NewQuad(alice, knows, NewLangLiteral("Bob", "en"), graph).String())
}

func TestStatement_Comparable(t *testing.T) {
	a := NewQuad(alice, knows, NewLiteral("x"), nil)
	b := NewQuad(IRI("http://example.org/Alice"), knows, NewLiteral("x"), nil)
	assert.True(t, a == b)

	seen := map[Statement]bool{a: true}
	assert.True(t, seen[b])
}

func TestPattern_Matches(t *testing.T) {
	inGraph := NewQuad(alice, knows, bob, graph)
	noGraph := NewStatement(bob, knows, alice)

	tests := []struct {
		name    string
		pattern Pattern
		want    []bool // inGraph, noGraph
	}{
		{"empty pattern", Pattern{}, []bool{true, true}},
		{"subject", Pattern{Subject: alice}, []bool{true, false}},
		{"predicate", Pattern{Predicate: knows}, []bool{true, true}},
		{"object", Pattern{Object: alice}, []bool{false, true}},
		{"context", Pattern{Context: graph}, []bool{true, false}},
		{"absent context", Pattern{Context: nil}, []bool{false, true}},
		{"conjunction", Pattern{Subject: alice, Object: alice}, []bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want[0], tt.pattern.Matches(inGraph))
			assert.Equal(t, tt.want[1], tt.pattern.Matches(noGraph))
		})
	}
}

func TestPattern_Bound(t *testing.T) {
	p := Pattern{Context: nil, Subject: alice}
	assert.Equal(t, []Column{Subject, Context}, p.Bound())
	assert.NoError(t, p.Validate())

	assert.Error(t, Pattern{Column("graph"): alice}.Validate())
}

func TestParseColumn(t *testing.T) {
	c, err := ParseColumn("object")
	require.NoError(t, err)
	assert.Equal(t, Object, c)

	_, err = ParseColumn("graph")
	assert.Error(t, err)
}

// Every term a valid statement accepts must survive a text round trip.
func TestStatement_ValidTermsRoundTrip(t *testing.T) {
	objects := []Term{
		BlankNode("b.c"),
		BlankNode("_x-1"),
		BlankNode("a:b"),
		BlankNode("nœud"),
		NewLiteral("\u00e9t\u00e9"),
		IRI("http://example.org/caf\u00e9"),
	}
	for _, o := range objects {
		st := NewStatement(alice, knows, o)
		require.NoError(t, st.Validate(), o.String())

		got, err := ParseTerm(o.String())
		require.NoError(t, err, o.String())
		assert.Equal(t, o, got)

		parsed, ok, err := ParseNQuad(st.String())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, st, parsed)
	}
}
