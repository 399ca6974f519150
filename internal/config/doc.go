// Package config loads store configuration.
//
// A configuration names the connection locator, an optional adapter that
// overrides the locator's scheme, and an ordered prefix table. Files are
// decoded by extension:
//
//	.yaml, .yml  gopkg.in/yaml.v3
//	.toml        github.com/BurntSushi/toml
//	.cue         cuelang.org/go, unified with the #Config schema
//
// Prefix order is significant (first matching stem wins), so every loader
// preserves the order in which prefixes appear in the file.
//
// Example (YAML):
//
//	db: sqlite3:/var/lib/quads.db
//	prefixes:
//	  ex: http://example.org/
//	  foaf: http://xmlns.com/foaf/0.1/
package config
