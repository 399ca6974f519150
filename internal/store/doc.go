// Package store persists RDF statements in a SQL database.
//
// A Store owns one database connection and one adapter.Adapter chosen by
// the dialect of its connection locator. Every term crossing the SQL
// boundary passes through a codec.Codec, so rows hold compact text cells:
//
//	subject    predicate   object     context
//	ex:Alice   ex:knows    ex:Bob     nil
//
// The Store satisfies rdf.Repository. It writes through immediately, does
// not cache, and is not safe for concurrent use; open one Store per
// goroutine or serialize calls. Scans are lazy: the cursor stays open until
// the loop over the returned sequence ends, and no other operation should
// be issued on the same Store before that.
//
// # Lifecycle
//
//	s, err := store.Open(ctx, "sqlite3:/var/lib/quads.db")
//	...
//	defer s.Dispose()
//
// Close releases the connection. Dispose also closes the underlying
// database handle. Any operation after either returns ErrClosed.
//
// # Errors
//
// Failures are reported as *Error with a Code: CONFIGURATION when no
// adapter matches or the connection cannot be opened, SCHEMA when
// migration fails, EXECUTION for SQL failures, and DECODE for cells that
// do not decode. Nothing is logged or retried.
package store
