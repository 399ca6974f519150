package rdf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ParseNQuad parses a single N-Quads line. Blank lines and comment lines
// are reported with ok=false and no error.
func ParseNQuad(line string) (s Statement, ok bool, err error) {
	rest := strings.TrimLeft(line, " \t")
	if rest == "" || rest[0] == '#' || strings.TrimSpace(rest) == "" {
		return Statement{}, false, nil
	}

	var terms []Term
	for len(terms) < 4 {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" || rest[0] == '.' {
			break
		}
		t, n, err := readTerm(rest)
		if err != nil {
			return Statement{}, false, err
		}
		terms = append(terms, t)
		rest = rest[n:]
	}
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, ".") {
		return Statement{}, false, fmt.Errorf("%w: missing terminating '.'", ErrSyntax)
	}
	rest = strings.TrimSpace(rest[1:])
	if rest != "" && rest[0] != '#' {
		return Statement{}, false, fmt.Errorf("%w: unexpected text after '.': %q", ErrSyntax, rest)
	}
	if len(terms) < 3 {
		return Statement{}, false, fmt.Errorf("%w: expected 3 or 4 terms, got %d", ErrSyntax, len(terms))
	}

	s = Statement{Subject: terms[0], Predicate: terms[1], Object: terms[2]}
	if len(terms) == 4 {
		s.Context = terms[3]
	}
	if err := s.Validate(); err != nil {
		return Statement{}, false, err
	}
	return s, true, nil
}

// NQuadsReader reads statements from N-Quads text, one per line.
type NQuadsReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewNQuadsReader creates a reader over r.
func NewNQuadsReader(r io.Reader) *NQuadsReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &NQuadsReader{scanner: sc}
}

// Read returns the next statement, or io.EOF when the input is exhausted.
func (r *NQuadsReader) Read() (Statement, error) {
	for r.scanner.Scan() {
		r.line++
		s, ok, err := ParseNQuad(r.scanner.Text())
		if err != nil {
			return Statement{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		if ok {
			return s, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return Statement{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return Statement{}, io.EOF
}

// WriteNQuads writes each statement of seq to w as an N-Quads line and
// returns the number of statements written.
func WriteNQuads(w io.Writer, seq iter.Seq2[Statement, error]) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	for s, err := range seq {
		if err != nil {
			return n, err
		}
		if _, err := bw.WriteString(s.String() + "\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// LoadOptions controls Load.
type LoadOptions struct {
	// BatchSize is the number of statements handed to each Insert call.
	// Zero means 1000.
	BatchSize int
	// NormalizeNFC rewrites literal values and IRIs to Unicode NFC before insert.
	NormalizeNFC bool
	// FreshBlankNodes relabels the document's blank nodes with labels unique
	// to this load, so _:b0 in two files names two resources.
	FreshBlankNodes bool
}

// Load reads N-Quads from r into repo and returns the number of statements inserted.
func Load(ctx context.Context, repo Mutable, r io.Reader, opts LoadOptions) (int, error) {
	size := opts.BatchSize
	if size <= 0 {
		size = 1000
	}
	reader := NewNQuadsReader(r)
	batch := make([]Statement, 0, size)
	total := 0
	var relabel *blankRelabeler
	if opts.FreshBlankNodes {
		relabel = newBlankRelabeler()
	}

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := repo.Insert(ctx, batch...); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		s, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, err
		}
		if opts.NormalizeNFC {
			s = NormalizeNFC(s)
		}
		if relabel != nil {
			s = relabel.statement(s)
		}
		batch = append(batch, s)
		if len(batch) == size {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// Dump writes every statement of repo to w as N-Quads.
func Dump(ctx context.Context, w io.Writer, repo Enumerable) (int, error) {
	return WriteNQuads(w, repo.Each(ctx))
}

// NormalizeNFC returns s with every IRI and literal value in Unicode NFC.
func NormalizeNFC(s Statement) Statement {
	return Statement{
		Subject:   normalizeTerm(s.Subject),
		Predicate: normalizeTerm(s.Predicate),
		Object:    normalizeTerm(s.Object),
		Context:   normalizeTerm(s.Context),
	}
}

func normalizeTerm(t Term) Term {
	switch v := t.(type) {
	case IRI:
		return IRI(norm.NFC.String(string(v)))
	case Literal:
		v.Value = norm.NFC.String(v.Value)
		if v.Datatype != "" {
			v.Datatype = IRI(norm.NFC.String(string(v.Datatype)))
		}
		return v
	default:
		return t
	}
}

// blankRelabeler maps document blank node labels to load-scoped ones.
type blankRelabeler struct {
	scope  string
	labels map[BlankNode]BlankNode
}

func newBlankRelabeler() *blankRelabeler {
	id := uuid.Must(uuid.NewV7())
	return &blankRelabeler{
		scope:  strings.ReplaceAll(id.String(), "-", ""),
		labels: make(map[BlankNode]BlankNode),
	}
}

func (r *blankRelabeler) term(t Term) Term {
	b, ok := t.(BlankNode)
	if !ok {
		return t
	}
	fresh, ok := r.labels[b]
	if !ok {
		fresh = BlankNode("u" + r.scope + "x" + string(b))
		r.labels[b] = fresh
	}
	return fresh
}

func (r *blankRelabeler) statement(s Statement) Statement {
	return Statement{
		Subject:   r.term(s.Subject),
		Predicate: s.Predicate,
		Object:    r.term(s.Object),
		Context:   r.term(s.Context),
	}
}
