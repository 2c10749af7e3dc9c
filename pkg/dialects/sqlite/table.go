package sqlite

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// Table is a SQLite table.
type Table struct {
	*table.Table
}

// New wraps base.
func New(base *table.Table) (table.Model, error) {
	return &Table{Table: base}, nil
}

// Create renders CREATE TABLE. A single-column primary key is declared on
// the column so AUTOINCREMENT is accepted.
func (t *Table) Create(ifNotExists bool) table.Query {
	return t.CreateWith(table.CreateSpec{IfNotExists: ifNotExists, InlinePrimaryKey: true})
}

// Truncate renders DELETE FROM; SQLite has no TRUNCATE.
func (t *Table) Truncate() table.Query {
	return table.Raw("DELETE FROM " + t.QualifiedName())
}

// InsertOrReplace renders INSERT OR REPLACE INTO.
func (t *Table) InsertOrReplace(values map[string]any) table.Query {
	return t.insertOr("REPLACE", values)
}

// InsertOrIgnore renders INSERT OR IGNORE INTO.
func (t *Table) InsertOrIgnore(values map[string]any) table.Query {
	return t.insertOr("IGNORE", values)
}

func (t *Table) insertOr(action string, values map[string]any) table.Query {
	cv, err := t.ColumnsAndValues(values)
	if err != nil {
		return table.Failed(err)
	}
	return table.Raw(fmt.Sprintf("INSERT OR %s INTO %s %s", action, t.QualifiedName(), cv))
}

// AttachDatabase renders ATTACH DATABASE path AS alias.
func (t *Table) AttachDatabase(path, alias string) table.Query {
	if alias == "" {
		return table.Failed(fmt.Errorf("attach database %q: empty alias", path))
	}
	return table.Raw(fmt.Sprintf("ATTACH DATABASE %s AS %s", t.QuoteString(path), t.Ident(alias)))
}

// DetachDatabase renders DETACH DATABASE alias.
func (t *Table) DetachDatabase(alias string) table.Query {
	if alias == "" {
		return table.Failed(fmt.Errorf("detach database: empty alias"))
	}
	return table.Raw("DETACH DATABASE " + t.Ident(alias))
}

// Pragma renders PRAGMA name, or PRAGMA name = value when value is set.
func (t *Table) Pragma(name, value string) table.Query {
	if !validPragma(name) {
		return table.Failed(fmt.Errorf("invalid pragma name %q", name))
	}
	if value == "" {
		return table.Raw("PRAGMA " + name)
	}
	return table.Raw(fmt.Sprintf("PRAGMA %s = %s", name, value))
}

// validPragma accepts "name" and "schema.name".
func validPragma(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
				return false
			}
		}
	}
	return true
}
