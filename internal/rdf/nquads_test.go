package rdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceRepo is a minimal in-memory Repository used to exercise the generic helpers.
type sliceRepo struct {
	statements []Statement
	inserts    int
}

func (r *sliceRepo) Insert(_ context.Context, statements ...Statement) error {
	r.inserts++
	r.statements = append(r.statements, statements...)
	return nil
}

func (r *sliceRepo) Delete(_ context.Context, statements ...Statement) error {
	for _, d := range statements {
		kept := r.statements[:0]
		for _, s := range r.statements {
			if s != d {
				kept = append(kept, s)
			}
		}
		r.statements = kept
	}
	return nil
}

func (r *sliceRepo) Each(ctx context.Context) iter.Seq2[Statement, error] {
	return r.Query(ctx, Pattern{})
}

func (r *sliceRepo) Count(context.Context) (int64, error) {
	return int64(len(r.statements)), nil
}

func (r *sliceRepo) Query(_ context.Context, p Pattern) iter.Seq2[Statement, error] {
	return func(yield func(Statement, error) bool) {
		for _, s := range r.statements {
			if p.Matches(s) && !yield(s, nil) {
				return
			}
		}
	}
}

var _ Repository = (*sliceRepo)(nil)

func TestParseNQuad(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Statement
	}{
		{
			name: "triple",
			line: "<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> .",
			want: NewStatement(alice, knows, bob),
		},
		{
			name: "quad with literal",
			line: `<http://example.org/Alice> <http://example.org/knows> "Bob"@en <http://example.org/graph> .`,
			want: NewQuad(alice, knows, NewLangLiteral("Bob", "en"), graph),
		},
		{
			name: "blank nodes without spacing before dot",
			line: "_:a <http://example.org/knows> _:b.",
			want: NewStatement(BlankNode("a"), knows, BlankNode("b")),
		},
		{
			name: "trailing comment",
			line: "  <http://example.org/Alice> <http://example.org/knows> \"x\" . # note",
			want: NewStatement(alice, knows, NewLiteral("x")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseNQuad(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNQuad_SkipsBlankAndComments(t *testing.T) {
	for _, line := range []string{"", "   ", "# comment", "\t# indented comment"} {
		_, ok, err := ParseNQuad(line)
		require.NoError(t, err)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParseNQuad_Errors(t *testing.T) {
	lines := []string{
		"<http://example.org/Alice> <http://example.org/knows> .",
		"<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob>",
		"<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> . extra",
		`"literal" <http://example.org/knows> <http://example.org/Bob> .`,
	}
	for _, line := range lines {
		_, _, err := ParseNQuad(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestStatementString_ParsesBack(t *testing.T) {
	stmts := []Statement{
		NewStatement(alice, knows, bob),
		NewQuad(BlankNode("x"), knows, NewTypedLiteral("1", "http://www.w3.org/2001/XMLSchema#integer"), graph),
		NewQuad(alice, knows, NewLiteral("line\nbreak"), BlankNode("g1")),
	}
	for _, s := range stmts {
		got, ok, err := ParseNQuad(s.String())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
}

func TestNQuadsReader_ReportsLine(t *testing.T) {
	input := "<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> .\n\nbogus\n"
	r := NewNQuadsReader(strings.NewReader(input))

	_, err := r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadAndDump(t *testing.T) {
	input := strings.Join([]string{
		"# people",
		"<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> .",
		"<http://example.org/Bob> <http://example.org/knows> <http://example.org/Alice> <http://example.org/graph> .",
		`<http://example.org/Bob> <http://example.org/name> "Bob" .`,
	}, "\n")

	repo := &sliceRepo{}
	n, err := Load(context.Background(), repo, strings.NewReader(input), LoadOptions{BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, repo.inserts, "expected one full batch and one remainder")

	var buf bytes.Buffer
	written, err := Dump(context.Background(), &buf, repo)
	require.NoError(t, err)
	assert.Equal(t, 3, written)
	assert.Equal(t, strings.Join(strings.Split(input, "\n")[1:], "\n")+"\n", buf.String())
}

func TestLoad_NormalizeNFC(t *testing.T) {
	// "e" followed by a combining acute accent.
	input := "<http://example.org/Alice> <http://example.org/name> \"Rene\u0301e\" .\n"

	repo := &sliceRepo{}
	_, err := Load(context.Background(), repo, strings.NewReader(input), LoadOptions{NormalizeNFC: true})
	require.NoError(t, err)
	require.Len(t, repo.statements, 1)
	assert.Equal(t, NewLiteral("Ren\u00e9e"), repo.statements[0].Object)
}

func TestLoad_FreshBlankNodes(t *testing.T) {
	input := strings.Join([]string{
		"_:b0 <http://example.org/knows> _:b1 .",
		"_:b1 <http://example.org/knows> _:b0 _:g .",
	}, "\n")

	first := &sliceRepo{}
	_, err := Load(context.Background(), first, strings.NewReader(input), LoadOptions{FreshBlankNodes: true})
	require.NoError(t, err)
	second := &sliceRepo{}
	_, err = Load(context.Background(), second, strings.NewReader(input), LoadOptions{FreshBlankNodes: true})
	require.NoError(t, err)

	require.Len(t, first.statements, 2)
	a := first.statements
	// Labels stay consistent within one load.
	assert.Equal(t, a[0].Subject, a[1].Object)
	assert.Equal(t, a[0].Object, a[1].Subject)
	assert.NotEqual(t, BlankNode("b0"), a[0].Subject)
	assert.IsType(t, BlankNode(""), a[1].Context)
	// Each load gets its own labels.
	assert.NotEqual(t, a[0].Subject, second.statements[0].Subject)

	// Relabeled statements round-trip through N-Quads.
	for _, s := range a {
		parsed, ok, err := ParseNQuad(s.String())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, s, parsed)
	}
}

func TestWriteNQuads_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(Statement, error) bool) {
		if !yield(NewStatement(alice, knows, bob), nil) {
			return
		}
		yield(Statement{}, boom)
	}

	n, err := WriteNQuads(io.Discard, seq)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
}

func TestCollect(t *testing.T) {
	repo := &sliceRepo{statements: []Statement{NewStatement(alice, knows, bob)}}
	got, err := Collect(repo.Each(context.Background()))
	require.NoError(t, err)
	assert.Equal(t, repo.statements, got)
}
