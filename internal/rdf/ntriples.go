package rdf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is returned when text is not a valid N-Triples term or line.
var ErrSyntax = errors.New("rdf: syntax error")

func syntaxError(offset int, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, offset, fmt.Sprintf(format, args...))
}

// ParseTerm parses the canonical N-Triples form of a single term.
// It is the exact inverse of Term.String.
func ParseTerm(s string) (Term, error) {
	t, n, err := readTerm(s)
	if err != nil {
		return nil, err
	}
	if n != len(s) {
		return nil, syntaxError(n, "unexpected trailing text %q", s[n:])
	}
	return t, nil
}

// MustParseTerm is like ParseTerm but panics on error.
// Intended for tests and package-level fixtures.
func MustParseTerm(s string) Term {
	t, err := ParseTerm(s)
	if err != nil {
		panic(err)
	}
	return t
}

// readTerm reads one term from the start of s and returns it together with
// the number of bytes consumed.
func readTerm(s string) (Term, int, error) {
	if s == "" {
		return nil, 0, syntaxError(0, "empty term")
	}
	switch {
	case s[0] == '<':
		iri, n, err := readIRI(s)
		if err != nil {
			return nil, 0, err
		}
		return IRI(iri), n, nil
	case strings.HasPrefix(s, "_:"):
		return readBlankNode(s)
	case s[0] == '"':
		return readLiteral(s)
	default:
		return nil, 0, syntaxError(0, "unexpected character %q", s[0])
	}
}

func readIRI(s string) (string, int, error) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		switch {
		case c == '>':
			return b.String(), i + 1, nil
		case c == '\\':
			r, n, err := readUCHAR(s, i)
			if err != nil {
				return "", 0, err
			}
			b.WriteRune(r)
			i += n
		case c <= 0x20 || strings.IndexByte(`<"{}|^`+"`", c) >= 0:
			return "", 0, syntaxError(i, "invalid character %q in IRI", c)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, syntaxError(i, "unterminated IRI")
}

func readBlankNode(s string) (Term, int, error) {
	end := 2
	for end < len(s) && !isSpace(s[end]) {
		end++
	}
	// A label may contain '.' but never end with it; a trailing dot is the
	// statement terminator of an N-Quads line.
	for end > 2 && s[end-1] == '.' {
		end--
	}
	if end == 2 {
		return nil, 0, syntaxError(2, "empty blank node label")
	}
	return BlankNode(s[2:end]), end, nil
}

func readLiteral(s string) (Term, int, error) {
	var b strings.Builder
	i := 1
	closed := false
	for i < len(s) && !closed {
		c := s[i]
		switch c {
		case '"':
			closed = true
			i++
		case '\\':
			if i+1 >= len(s) {
				return nil, 0, syntaxError(i, "unterminated escape")
			}
			switch s[i+1] {
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 'f':
				b.WriteByte('\f')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			case '\\':
				b.WriteByte('\\')
			case 'u', 'U':
				r, n, err := readUCHAR(s, i)
				if err != nil {
					return nil, 0, err
				}
				b.WriteRune(r)
				i += n
				continue
			default:
				return nil, 0, syntaxError(i, "invalid escape %q", s[i:i+2])
			}
			i += 2
		case '\n', '\r':
			return nil, 0, syntaxError(i, "raw line break in literal")
		default:
			b.WriteByte(c)
			i++
		}
	}
	if !closed {
		return nil, 0, syntaxError(i, "unterminated literal")
	}

	lit := Literal{Value: b.String()}
	switch {
	case strings.HasPrefix(s[i:], "@"):
		end := i + 1
		for end < len(s) && (isAlnum(s[end]) || s[end] == '-') {
			end++
		}
		tag := s[i+1 : end]
		if !validLanguageTag(tag) {
			return nil, 0, syntaxError(i+1, "invalid language tag %q", tag)
		}
		lit.Language = tag
		i = end
	case strings.HasPrefix(s[i:], "^^"):
		if i+2 >= len(s) || s[i+2] != '<' {
			return nil, 0, syntaxError(i+2, "datatype must be an IRI")
		}
		dt, n, err := readIRI(s[i+2:])
		if err != nil {
			return nil, 0, err
		}
		lit.Datatype = IRI(dt)
		i += 2 + n
	}
	return lit, i, nil
}

// readUCHAR decodes a \uXXXX or \UXXXXXXXX escape starting at s[i].
func readUCHAR(s string, i int) (rune, int, error) {
	if i+1 >= len(s) {
		return 0, 0, syntaxError(i, "unterminated escape")
	}
	width := 0
	switch s[i+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, 0, syntaxError(i, "invalid escape %q", s[i:i+2])
	}
	if i+2+width > len(s) {
		return 0, 0, syntaxError(i, "short unicode escape")
	}
	v, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, 0, syntaxError(i, "invalid unicode escape %q", s[i:i+2+width])
	}
	return rune(v), 2 + width, nil
}

// validLanguageTag checks the N-Triples LANGTAG production:
// [a-zA-Z]+ ('-' [a-zA-Z0-9]+)*
// validBlankNodeLabel reports whether label matches the N-Triples
// BLANK_NODE_LABEL production (without the "_:" marker).
func validBlankNodeLabel(label string) bool {
	if label == "" || !utf8.ValidString(label) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(label)
	if !isPNCharsU(first) && !isDigit(first) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(label)
	if last == '.' {
		return false
	}
	for _, r := range label {
		if !isPNChars(r) && r != '.' {
			return false
		}
	}
	return true
}

func isPNCharsBase(r rune) bool {
	switch {
	case 'A' <= r && r <= 'Z', 'a' <= r && r <= 'z':
		return true
	case 0x00C0 <= r && r <= 0x00D6, 0x00D8 <= r && r <= 0x00F6, 0x00F8 <= r && r <= 0x02FF:
		return true
	case 0x0370 <= r && r <= 0x037D, 0x037F <= r && r <= 0x1FFF, 0x200C <= r && r <= 0x200D:
		return true
	case 0x2070 <= r && r <= 0x218F, 0x2C00 <= r && r <= 0x2FEF, 0x3001 <= r && r <= 0xD7FF:
		return true
	case 0xF900 <= r && r <= 0xFDCF, 0xFDF0 <= r && r <= 0xFFFD, 0x10000 <= r && r <= 0xEFFFF:
		return true
	}
	return false
}

func isPNCharsU(r rune) bool {
	return isPNCharsBase(r) || r == '_' || r == ':'
}

func isPNChars(r rune) bool {
	switch {
	case isPNCharsU(r), isDigit(r), r == '-', r == 0x00B7:
		return true
	case 0x0300 <= r && r <= 0x036F, 0x203F <= r && r <= 0x2040:
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func validLanguageTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, part := range strings.Split(tag, "-") {
		if part == "" {
			return false
		}
		for j := 0; j < len(part); j++ {
			c := part[j]
			if i == 0 && !isAlpha(c) {
				return false
			}
			if !isAlnum(c) {
				return false
			}
		}
	}
	return true
}

func writeIRI(b *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r <= 0x20, r == '<', r == '>', r == '"', r == '{', r == '}',
			r == '|', r == '^', r == '`', r == '\\':
			fmt.Fprintf(b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
}

func writeString(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7F {
				fmt.Fprintf(b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}
