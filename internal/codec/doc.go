// Package codec converts graph terms to and from the text cells stored in the
// quads table.
//
// A cell takes one of three forms:
//   - NoValue ("nil") for the absent context
//   - "label:remainder" when an IRI starts with a configured prefix stem
//   - the canonical N-Triples form of the term otherwise
//
// Canonical N-Triples text always starts with '<', '_' or '"', so it can
// never equal NoValue. A prefixed cell is recognized by a configured label
// followed by ':'.
//
// # Prefix Hazards
//
// Prefixes are consulted in table order and the first matching stem wins.
// Rows written under one prefix table are only decodable under a table that
// still maps the same labels to the same stems; removing or re-pointing a
// label makes existing rows decode to different IRIs. A canonical term that
// happens to begin with "label:" for a configured label is decoded as a
// prefixed IRI. Neither case is detected at runtime.
package codec
