package table

import (
	"fmt"
	"strings"

	"entgo.io/ent/dialect/sql"
)

// Query is a renderable SQL statement.
type Query interface {
	SQL() (string, []any, error)
}

// Statement is a fully rendered statement.
type Statement struct {
	Text string
	Args []any
}

// SQL implements Query.
func (s Statement) SQL() (string, []any, error) {
	return s.Text, s.Args, nil
}

func (s Statement) String() string { return s.Text }

// Raw returns a Statement for text and args.
func Raw(text string, args ...any) Statement {
	return Statement{Text: text, Args: args}
}

// QueryFunc adapts a function to Query.
type QueryFunc func() (string, []any, error)

// SQL implements Query.
func (f QueryFunc) SQL() (string, []any, error) { return f() }

// Failed returns a Query whose rendering always fails with err.
func Failed(err error) Query {
	return QueryFunc(func() (string, []any, error) { return "", nil, err })
}

// Render renders q and returns only the SQL text.
func Render(q Query) (string, error) {
	text, _, err := q.SQL()
	return text, err
}

// MustRender is like Render but panics on error.
func MustRender(q Query) string {
	text, err := Render(q)
	if err != nil {
		panic(err)
	}
	return text
}

// builder wraps the ent statement builder with table-aware helpers.
type builder struct {
	*sql.Builder
}

func (t *Table) builder() *builder {
	b := &sql.Builder{}
	b.SetDialect(t.Dialect.Builder())
	return &builder{Builder: b}
}

// table writes a schema-qualified identifier.
func (b *builder) table(schema, name string) *builder {
	if schema != "" {
		b.Ident(schema).WriteByte('.')
	}
	b.Ident(name)
	return b
}

// Ident quotes a single identifier for the table's dialect.
func (t *Table) Ident(name string) string {
	return t.builder().Ident(name).String()
}

// IdentList quotes and comma-joins identifiers.
func (t *Table) IdentList(names ...string) string {
	return t.builder().IdentComma(names...).String()
}

// BackslashEscaper is implemented by dialects whose string literals treat
// backslash as an escape character.
type BackslashEscaper interface {
	EscapeBackslash() bool
}

// QuoteString renders s as a single-quoted SQL string literal.
func (t *Table) QuoteString(s string) string {
	if e, ok := t.Dialect.(BackslashEscaper); ok && e.EscapeBackslash() {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Literal renders v as an inline SQL literal.
func (t *Table) Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(x)
	case string:
		return t.QuoteString(x)
	default:
		return t.QuoteString(fmt.Sprint(x))
	}
}

var defaultKeywords = map[string]bool{
	"CURRENT_TIMESTAMP": true,
	"CURRENT_DATE":      true,
	"CURRENT_TIME":      true,
	"NULL":              true,
}

// defaultExpr renders a column default; CURRENT_* keywords stay bare.
func (t *Table) defaultExpr(v any) string {
	if s, ok := v.(string); ok && defaultKeywords[strings.ToUpper(s)] {
		return strings.ToUpper(s)
	}
	return t.Literal(v)
}

// Assignments renders "col = literal" pairs in sorted column order.
func (t *Table) Assignments(values map[string]any) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("table %q: no values", t.Name)
	}
	keys := sortedKeys(values)
	if err := t.CheckColumns(keys...); err != nil {
		return "", err
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = t.Ident(k) + " = " + t.Literal(values[k])
	}
	return strings.Join(parts, ", "), nil
}

// ColumnsAndValues renders "(cols) VALUES (literals)" in sorted column order.
func (t *Table) ColumnsAndValues(values map[string]any) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("table %q: no values", t.Name)
	}
	keys := sortedKeys(values)
	if err := t.CheckColumns(keys...); err != nil {
		return "", err
	}
	lits := make([]string, len(keys))
	for i, k := range keys {
		lits[i] = t.Literal(values[k])
	}
	return "(" + t.IdentList(keys...) + ") VALUES (" + strings.Join(lits, ", ") + ")", nil
}
