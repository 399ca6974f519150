package config

import (
	"fmt"
	"strings"

	"github.com/roach88/quadsql/internal/codec"
)

// DefaultLocator opens a private in-memory SQLite database.
const DefaultLocator = "sqlite3::memory:"

// Config describes how to open a store.
type Config struct {
	// DB is the connection locator, e.g. "sqlite3:/var/lib/quads.db".
	// Empty means DefaultLocator.
	DB string `json:"db,omitempty"`

	// Adapter overrides the dialect taken from the locator's scheme.
	Adapter string `json:"adapter,omitempty"`

	// Prefixes is the prefix table in lookup order.
	Prefixes []codec.Prefix `json:"prefixes,omitempty"`
}

// Locator returns DB, or DefaultLocator when DB is empty.
func (c Config) Locator() string {
	if c.DB == "" {
		return DefaultLocator
	}
	return c.DB
}

// Validate checks the prefix table. The locator and adapter are checked
// when the store is opened.
func (c Config) Validate() error {
	_, err := codec.NewPrefixTable(c.Prefixes...)
	return err
}

// Merge returns c with every non-empty field of override applied.
// Override prefixes are appended after c's; a label present in both takes
// the override's stem at c's position.
func (c Config) Merge(override Config) Config {
	out := c
	if override.DB != "" {
		out.DB = override.DB
	}
	if override.Adapter != "" {
		out.Adapter = override.Adapter
	}
	if len(override.Prefixes) > 0 {
		out.Prefixes = make([]codec.Prefix, 0, len(c.Prefixes)+len(override.Prefixes))
		index := make(map[string]int, len(c.Prefixes))
		for _, p := range c.Prefixes {
			index[p.Label] = len(out.Prefixes)
			out.Prefixes = append(out.Prefixes, p)
		}
		for _, p := range override.Prefixes {
			if i, ok := index[p.Label]; ok {
				out.Prefixes[i].Stem = p.Stem
				continue
			}
			index[p.Label] = len(out.Prefixes)
			out.Prefixes = append(out.Prefixes, p)
		}
	}
	return out
}

// ParsePrefix parses a "label=stem" pair as given on the command line.
func ParsePrefix(s string) (codec.Prefix, error) {
	label, stem, ok := strings.Cut(s, "=")
	if !ok {
		return codec.Prefix{}, fmt.Errorf("invalid prefix %q: expected label=stem", s)
	}
	p := codec.Prefix{Label: strings.TrimSpace(label), Stem: strings.TrimSpace(stem)}
	if err := codec.ValidatePrefix(p.Label, p.Stem); err != nil {
		return codec.Prefix{}, err
	}
	return p, nil
}
