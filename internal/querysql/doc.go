// Package querysql compiles operations on the quads table to parameterized SQL.
//
// The query IR is deliberately small: Select, Count, Insert and Delete over a
// single table, filtered by a conjunction of column equalities. Values are
// never interpolated into SQL text; every value is a placeholder whose syntax
// depends on the dialect's PlaceholderStyle.
package querysql
