// Package adapter defines the Backend Adapter contract and the registry of
// SQL dialects quadsql can store statements in.
//
// An Adapter produces SQL text for every operation the store performs and
// owns the one-time schema setup of a fresh connection. It never encodes or
// decodes terms; it only sees cells.
//
// # Registered Dialects
//
//	sqlite3   github.com/mattn/go-sqlite3 (cgo)
//	sqlite    modernc.org/sqlite (pure Go)
//	postgres  github.com/lib/pq (alias: postgresql)
//	mysql     github.com/go-sql-driver/mysql
//
// The registry is populated statically; Register adds dialects at process
// start (for example in tests) and is not meant to be called concurrently
// with store construction.
//
// # Schema
//
// Every dialect creates a single quads table with four text columns
// (subject, predicate, object, context) and no uniqueness constraint.
// Duplicate statements are stored as duplicate rows.
package adapter
