package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPrefix is returned when a prefix label or stem is malformed.
var ErrInvalidPrefix = errors.New("codec: invalid prefix")

// Prefix maps a short label to an IRI stem.
type Prefix struct {
	Label string `json:"label" yaml:"label" toml:"label"`
	Stem  string `json:"stem" yaml:"stem" toml:"stem"`
}

// PrefixTable is an ordered list of prefixes. Lookups scan in insertion order.
// The zero value is an empty table ready to use.
type PrefixTable struct {
	entries []Prefix
}

// NewPrefixTable creates a table from prefixes, preserving their order.
func NewPrefixTable(prefixes ...Prefix) (*PrefixTable, error) {
	t := &PrefixTable{}
	for _, p := range prefixes {
		if err := t.Add(p.Label, p.Stem); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ValidatePrefix checks that label and stem can be used in a prefix table.
// Labels must be non-empty, contain no ':' or whitespace, and must not be "_"
// (which would shadow blank node cells).
func ValidatePrefix(label, stem string) error {
	switch {
	case label == "":
		return fmt.Errorf("%w: empty label", ErrInvalidPrefix)
	case strings.ContainsAny(label, ": \t\r\n"):
		return fmt.Errorf("%w: label %q must not contain ':' or whitespace", ErrInvalidPrefix, label)
	case label == "_":
		return fmt.Errorf("%w: label %q is reserved for blank nodes", ErrInvalidPrefix, label)
	case stem == "":
		return fmt.Errorf("%w: empty stem for label %q", ErrInvalidPrefix, label)
	}
	return nil
}

// Add appends a prefix to the end of the table.
// Adding an existing label is an error; use Remove first to re-point it.
func (t *PrefixTable) Add(label, stem string) error {
	if err := ValidatePrefix(label, stem); err != nil {
		return err
	}
	if _, ok := t.Lookup(label); ok {
		return fmt.Errorf("%w: duplicate label %q", ErrInvalidPrefix, label)
	}
	t.entries = append(t.entries, Prefix{Label: label, Stem: stem})
	return nil
}

// Remove deletes label from the table and reports whether it was present.
func (t *PrefixTable) Remove(label string) bool {
	if t == nil {
		return false
	}
	for i, p := range t.entries {
		if p.Label == label {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the stem for label.
func (t *PrefixTable) Lookup(label string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, p := range t.entries {
		if p.Label == label {
			return p.Stem, true
		}
	}
	return "", false
}

// Len returns the number of prefixes.
func (t *PrefixTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the table in lookup order.
func (t *PrefixTable) Entries() []Prefix {
	if t == nil {
		return nil
	}
	out := make([]Prefix, len(t.entries))
	copy(out, t.entries)
	return out
}

// Shorten returns "label:remainder" for the first stem that prefixes iri.
func (t *PrefixTable) Shorten(iri string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, p := range t.entries {
		if strings.HasPrefix(iri, p.Stem) {
			return p.Label + ":" + iri[len(p.Stem):], true
		}
	}
	return "", false
}

// Expand reverses Shorten: for the first label such that cell starts with
// "label:", it returns stem + remainder.
func (t *PrefixTable) Expand(cell string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, p := range t.entries {
		if len(cell) > len(p.Label) && cell[len(p.Label)] == ':' && strings.HasPrefix(cell, p.Label) {
			return p.Stem + cell[len(p.Label)+1:], true
		}
	}
	return "", false
}
