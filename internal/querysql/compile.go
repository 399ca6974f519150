package querysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/quadsql/internal/rdf"
)

// PlaceholderStyle selects how parameters are written in SQL text.
type PlaceholderStyle int

const (
	// QuestionMark writes every parameter as "?" (SQLite, MySQL).
	QuestionMark PlaceholderStyle = iota
	// DollarNumbered writes parameters as "$1", "$2", ... (PostgreSQL).
	DollarNumbered
)

// DefaultTable is the table holding statements.
const DefaultTable = "quads"

// SQLCompiler compiles Query values to parameterized SQL for one dialect.
//
// CRITICAL: All values are parameterized (never interpolated).
type SQLCompiler struct {
	Table string
	Style PlaceholderStyle
}

// NewSQLCompiler creates a compiler for the default table.
func NewSQLCompiler(style PlaceholderStyle) *SQLCompiler {
	return &SQLCompiler{Table: DefaultTable, Style: style}
}

// builder tracks placeholder numbering for a single statement.
type builder struct {
	style PlaceholderStyle
	n     int
}

func (b *builder) next() string {
	b.n++
	if b.style == DollarNumbered {
		return "$" + strconv.Itoa(b.n)
	}
	return "?"
}

// Compile converts a Query to SQL text and the parameters known at compile
// time (the Equals values, in placeholder order).
func (c *SQLCompiler) Compile(q Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	if !validIdentifier(c.Table) {
		return "", nil, fmt.Errorf("invalid table name %q", c.Table)
	}

	b := &builder{style: c.Style}
	switch query := q.(type) {
	case Select:
		return c.compileSelect(b, query)
	case *Select:
		return c.compileSelect(b, *query)
	case Count:
		return c.compileCount(b, query)
	case *Count:
		return c.compileCount(b, *query)
	case Insert:
		return c.compileInsert(b, query)
	case *Insert:
		return c.compileInsert(b, *query)
	case Delete:
		return c.compileDelete(b, query)
	case *Delete:
		return c.compileDelete(b, *query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// MustCompile is like Compile but panics on error. Adapters use it for
// statements built from constant IR.
func (c *SQLCompiler) MustCompile(q Query) string {
	sql, _, err := c.Compile(q)
	if err != nil {
		panic(err)
	}
	return sql
}

func (c *SQLCompiler) compileSelect(b *builder, q Select) (string, []any, error) {
	columns := q.Columns
	if len(columns) == 0 {
		columns = rdf.Columns
	}
	list, err := columnList(columns)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(list)
	sb.WriteString(" FROM ")
	sb.WriteString(c.Table)

	params, err := c.writeWhere(&sb, b, q.Filter)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), params, nil
}

func (c *SQLCompiler) compileCount(b *builder, q Count) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(c.Table)

	params, err := c.writeWhere(&sb, b, q.Filter)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), params, nil
}

func (c *SQLCompiler) compileInsert(b *builder, q Insert) (string, []any, error) {
	if q.Rows < 1 {
		return "", nil, fmt.Errorf("insert requires at least one row, got %d", q.Rows)
	}
	list, err := columnList(rdf.Columns)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(c.Table)
	sb.WriteString(" (")
	sb.WriteString(list)
	sb.WriteString(") VALUES ")
	for row := 0; row < q.Rows; row++ {
		if row > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for i := range rdf.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.next())
		}
		sb.WriteByte(')')
	}
	return sb.String(), nil, nil
}

func (c *SQLCompiler) compileDelete(b *builder, q Delete) (string, []any, error) {
	if isEmpty(q.Filter) {
		return "", nil, fmt.Errorf("delete requires a filter")
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(c.Table)

	params, err := c.writeWhere(&sb, b, q.Filter)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), params, nil
}

// writeWhere appends " WHERE ..." unless the filter matches every row.
func (c *SQLCompiler) writeWhere(sb *strings.Builder, b *builder, p Predicate) ([]any, error) {
	if isEmpty(p) {
		return nil, nil
	}
	sql, params, err := c.compilePredicate(b, p)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(sql)
	return params, nil
}

// compilePredicate compiles a Predicate to a WHERE clause fragment.
// CRITICAL: Values NEVER interpolated - always placeholders.
func (c *SQLCompiler) compilePredicate(b *builder, p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case Equals:
		return c.compileEquals(b, pred)
	case *Equals:
		return c.compileEquals(b, *pred)
	case BoundEquals:
		return c.compileBoundEquals(b, pred)
	case *BoundEquals:
		return c.compileBoundEquals(b, *pred)
	case And:
		return c.compileAnd(b, pred)
	case *And:
		return c.compileAnd(b, *pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileEquals(b *builder, eq Equals) (string, []any, error) {
	if !eq.Column.Valid() {
		return "", nil, fmt.Errorf("unknown column %q", string(eq.Column))
	}
	return string(eq.Column) + " = " + b.next(), []any{eq.Value}, nil
}

func (c *SQLCompiler) compileBoundEquals(b *builder, eq BoundEquals) (string, []any, error) {
	if !eq.Column.Valid() {
		return "", nil, fmt.Errorf("unknown column %q", string(eq.Column))
	}
	return string(eq.Column) + " = " + b.next(), nil, nil
}

func (c *SQLCompiler) compileAnd(b *builder, and And) (string, []any, error) {
	var parts []string
	var params []any
	for _, pred := range and.Predicates {
		if isEmpty(pred) {
			continue
		}
		sql, p, err := c.compilePredicate(b, pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, p...)
	}
	if len(parts) == 0 {
		return "1 = 1", nil, nil
	}
	return strings.Join(parts, " AND "), params, nil
}

// isEmpty reports whether p constrains nothing.
func isEmpty(p Predicate) bool {
	switch pred := p.(type) {
	case nil:
		return true
	case And:
		for _, inner := range pred.Predicates {
			if !isEmpty(inner) {
				return false
			}
		}
		return true
	case *And:
		return pred == nil || isEmpty(*pred)
	default:
		return false
	}
}

func columnList(columns []rdf.Column) (string, error) {
	names := make([]string, len(columns))
	for i, c := range columns {
		if !c.Valid() {
			return "", fmt.Errorf("unknown column %q", string(c))
		}
		names[i] = string(c)
	}
	return strings.Join(names, ", "), nil
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
