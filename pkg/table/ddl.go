package table

import (
	"fmt"
	"sort"
	"strings"

	"entgo.io/ent/dialect/sql"
)

// CreateSpec customizes CREATE TABLE rendering for a dialect.
type CreateSpec struct {
	IfNotExists bool
	// Modifier is written between CREATE and TABLE, e.g. "EXTERNAL".
	Modifier string
	// InlinePrimaryKey renders a single-column key on the column itself.
	InlinePrimaryKey bool
	// NoConstraints omits key, nullability, uniqueness and defaults.
	NoConstraints bool
	// Columns replaces the table's columns in the column list when non-nil.
	Columns []*Column
	// Trailer clauses follow the column list, one per line.
	Trailer []string
}

// Create renders CREATE TABLE.
func (t *Table) Create(ifNotExists bool) Query {
	return t.CreateWith(CreateSpec{IfNotExists: ifNotExists})
}

// CreateWith renders CREATE TABLE using spec.
func (t *Table) CreateWith(spec CreateSpec) Query {
	return QueryFunc(func() (string, []any, error) {
		cols := spec.Columns
		if cols == nil {
			cols = t.Columns
		}
		if len(cols) == 0 {
			return "", nil, fmt.Errorf("table %q: no columns", t.Name)
		}

		pk := t.PrimaryKey()
		inline := spec.InlinePrimaryKey && len(pk) == 1

		defs := make([]string, 0, len(cols)+1)
		for _, c := range cols {
			def, err := t.columnDef(c, spec, inline)
			if err != nil {
				return "", nil, err
			}
			defs = append(defs, def)
		}
		if len(pk) > 0 && !inline && !spec.NoConstraints {
			b := t.builder()
			b.WriteString("PRIMARY KEY ").Wrap(func(w *sql.Builder) { w.IdentComma(pk...) })
			defs = append(defs, b.String())
		}

		b := t.builder()
		b.WriteString("CREATE ")
		if spec.Modifier != "" {
			b.WriteString(spec.Modifier).Pad()
		}
		b.WriteString("TABLE ")
		if spec.IfNotExists {
			b.WriteString("IF NOT EXISTS ")
		}
		b.table(t.Schema, t.Name)
		b.WriteString(" (\n  ").WriteString(strings.Join(defs, ",\n  ")).WriteString("\n)")
		for _, clause := range spec.Trailer {
			b.WriteString("\n").WriteString(clause)
		}
		return b.String(), nil, nil
	})
}

func (t *Table) columnDef(c *Column, spec CreateSpec, inlinePK bool) (string, error) {
	typ, err := t.Dialect.FormatType(c.Type)
	if err != nil {
		return "", fmt.Errorf("table %q column %q: %w", t.Name, c.Name, err)
	}

	b := t.builder()
	b.Ident(c.Name).Pad().WriteString(typ)
	if spec.NoConstraints {
		return b.String(), nil
	}

	inlined := inlinePK && c.PrimaryKey
	if inlined {
		b.WriteString(" PRIMARY KEY")
	}
	if c.AutoIncrement {
		if attr := t.Dialect.AutoIncrement(); attr != "" {
			b.Pad().WriteString(attr)
		}
	}
	if !c.Nullable && !inlined {
		b.WriteString(" NOT NULL")
	}
	if c.Unique && !c.PrimaryKey {
		b.WriteString(" UNIQUE")
	}
	if c.HasDefault {
		b.WriteString(" DEFAULT ").WriteString(t.defaultExpr(c.Default))
	}
	return b.String(), nil
}

// Drop renders DROP TABLE.
func (t *Table) Drop(ifExists bool) Query {
	b := t.builder()
	b.WriteString("DROP TABLE ")
	if ifExists {
		b.WriteString("IF EXISTS ")
	}
	b.table(t.Schema, t.Name)
	return Raw(b.String())
}

// Truncate renders TRUNCATE TABLE.
func (t *Table) Truncate() Query {
	b := t.builder()
	b.WriteString("TRUNCATE TABLE ")
	b.table(t.Schema, t.Name)
	return Raw(b.String())
}

// CopyName is the default name for a table copy.
func (t *Table) CopyName() string {
	return t.Name + "_copy"
}

// CreateAsSelect renders CREATE TABLE newName AS query in the table's
// schema. An empty newName defaults to CopyName; a nil query selects every
// row of t.
func (t *Table) CreateAsSelect(query Query, newName string) Query {
	return QueryFunc(func() (string, []any, error) {
		if newName == "" {
			newName = t.CopyName()
		}
		if query == nil {
			query = t.Select()
		}
		text, args, err := query.SQL()
		if err != nil {
			return "", nil, err
		}
		b := t.builder()
		b.WriteString("CREATE TABLE ")
		b.table(t.Schema, newName)
		b.WriteString(" AS ").WriteString(text)
		return b.String(), args, nil
	})
}

// IndexName returns idx's name, deriving one when it is empty.
func (t *Table) IndexName(idx Index) string {
	if idx.Name != "" {
		return idx.Name
	}
	return fmt.Sprintf("idx_%s_%s", t.Name, strings.Join(idx.Columns, "_"))
}

// CreateIndexes renders one CREATE INDEX statement per declared index.
func (t *Table) CreateIndexes() []Query {
	queries := make([]Query, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		b := t.builder()
		b.WriteString("CREATE ")
		if idx.Unique {
			b.WriteString("UNIQUE ")
		}
		b.WriteString("INDEX ").Ident(t.IndexName(idx))
		b.WriteString(" ON ")
		b.table(t.Schema, t.Name)
		b.Pad().Wrap(func(w *sql.Builder) { w.IdentComma(idx.Columns...) })
		queries = append(queries, Raw(b.String()))
	}
	return queries
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
