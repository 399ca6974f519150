// Package harness runs YAML scenarios against a statement store.
//
// A scenario opens a fresh store, applies its steps in order, and records a
// trace of what each step observed. Expectation steps compare the store's
// answers with the scenario and record mismatches as errors; they do not
// stop the run.
//
// # Scenario Format
//
//	name: alice_knows_bob
//	description: "What this scenario validates"
//	db: sqlite3::memory:        # optional, defaults to a private in-memory store
//	adapter: sqlite3            # optional dialect override
//	prefixes:
//	  - label: ex
//	    stem: http://example.org/
//	steps:
//	  - insert:
//	      - '<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> .'
//	  - expect_count: 1
//	  - expect_subjects: ['<http://example.org/Alice>']
//	  - expect_query:
//	      pattern: { object: '<http://example.org/Bob>' }
//	      statements:
//	        - '<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> .'
//
// Statements are N-Quads lines and pattern values are N-Triples terms. The
// pattern value "nil" binds the context column to "no context".
//
// # Step Types
//
//   - insert, delete: write statements
//   - expect_count: compare the row count
//   - expect_query: compare a pattern query's results as a set
//   - expect_subjects, expect_predicates, expect_objects, expect_contexts:
//     compare a distinct-column scan as a set
//
// # Golden Traces
//
// RunWithGolden writes the trace as JSON and compares it with
// testdata/golden/<scenario name>.golden. Set-valued outputs are sorted, so
// traces do not depend on backend scan order.
package harness
