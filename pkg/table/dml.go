package table

import (
	"fmt"
	"strings"

	"entgo.io/ent/dialect/sql"
)

func (t *Table) selectTable() *sql.SelectTable {
	st := sql.Dialect(t.Dialect.Builder()).Table(t.Name)
	if t.Schema != "" {
		st.Schema(t.Schema)
	}
	return st
}

// isExpr reports whether a select item is an expression rather than a
// plain column name.
func isExpr(s string) bool {
	return strings.ContainsAny(s, "*(). ")
}

// SelectQuery builds a SELECT against a table.
type SelectQuery struct {
	from *sql.SelectTable
	sel  *sql.Selector
	err  error
}

// Select starts a SELECT of the given columns, or of every column when
// none are given. Expressions such as "COUNT(*)" are passed through.
func (t *Table) Select(columns ...string) *SelectQuery {
	q := &SelectQuery{from: t.selectTable()}
	for _, c := range columns {
		if !isExpr(c) && q.err == nil {
			q.err = t.CheckColumns(c)
		}
	}
	q.sel = sql.Dialect(t.Dialect.Builder()).Select(columns...).From(q.from)
	return q
}

// Where adds a predicate; repeated calls are combined with AND.
func (q *SelectQuery) Where(p *sql.Predicate) *SelectQuery {
	q.sel.Where(p)
	return q
}

// Join adds an INNER JOIN on t.column = other.otherColumn.
func (q *SelectQuery) Join(other *Table, column, otherColumn string) *SelectQuery {
	ot := other.selectTable()
	q.sel.Join(ot).On(q.from.C(column), ot.C(otherColumn))
	return q
}

// LeftJoin adds a LEFT JOIN on t.column = other.otherColumn.
func (q *SelectQuery) LeftJoin(other *Table, column, otherColumn string) *SelectQuery {
	ot := other.selectTable()
	q.sel.LeftJoin(ot).On(q.from.C(column), ot.C(otherColumn))
	return q
}

// RightJoin adds a RIGHT JOIN on t.column = other.otherColumn.
func (q *SelectQuery) RightJoin(other *Table, column, otherColumn string) *SelectQuery {
	ot := other.selectTable()
	q.sel.RightJoin(ot).On(q.from.C(column), ot.C(otherColumn))
	return q
}

// GroupBy adds GROUP BY columns.
func (q *SelectQuery) GroupBy(columns ...string) *SelectQuery {
	q.sel.GroupBy(columns...)
	return q
}

// Having sets the HAVING predicate.
func (q *SelectQuery) Having(p *sql.Predicate) *SelectQuery {
	q.sel.Having(p)
	return q
}

// OrderBy adds ORDER BY terms. Use sql.Desc for descending order.
func (q *SelectQuery) OrderBy(columns ...string) *SelectQuery {
	q.sel.OrderBy(columns...)
	return q
}

// Limit sets LIMIT.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.sel.Limit(n)
	return q
}

// Offset sets OFFSET.
func (q *SelectQuery) Offset(n int) *SelectQuery {
	q.sel.Offset(n)
	return q
}

// SQL implements Query.
func (q *SelectQuery) SQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	text, args := q.sel.Query()
	return text, args, nil
}

// InsertQuery builds an INSERT against a table.
type InsertQuery struct {
	ins *sql.InsertBuilder
	err error
}

// Insert starts an INSERT of one or more rows. Columns are taken from the
// first row in sorted order; every row must set the same columns.
func (t *Table) Insert(rows ...map[string]any) *InsertQuery {
	q := &InsertQuery{ins: sql.Dialect(t.Dialect.Builder()).Insert(t.Name).Schema(t.Schema)}
	if len(rows) == 0 || len(rows[0]) == 0 {
		q.err = fmt.Errorf("table %q: insert without values", t.Name)
		return q
	}

	cols := sortedKeys(rows[0])
	if err := t.CheckColumns(cols...); err != nil {
		q.err = err
		return q
	}
	q.ins.Columns(cols...)

	for i, row := range rows {
		if len(row) != len(cols) {
			q.err = fmt.Errorf("table %q: row %d sets %d columns, want %d", t.Name, i, len(row), len(cols))
			return q
		}
		vals := make([]any, len(cols))
		for j, c := range cols {
			v, ok := row[c]
			if !ok {
				q.err = fmt.Errorf("table %q: row %d is missing column %q", t.Name, i, c)
				return q
			}
			vals[j] = v
		}
		q.ins.Values(vals...)
	}
	return q
}

// OnConflictDoNothing skips rows that conflict on the given columns.
func (q *InsertQuery) OnConflictDoNothing(columns ...string) *InsertQuery {
	q.ins.OnConflict(sql.ConflictColumns(columns...), sql.DoNothing())
	return q
}

// OnConflictDoUpdate overwrites conflicting rows with the inserted values.
func (q *InsertQuery) OnConflictDoUpdate(columns ...string) *InsertQuery {
	q.ins.OnConflict(sql.ConflictColumns(columns...), sql.ResolveWithNewValues())
	return q
}

// Returning adds a RETURNING clause (PostgreSQL and SQLite).
func (q *InsertQuery) Returning(columns ...string) *InsertQuery {
	q.ins.Returning(columns...)
	return q
}

// SQL implements Query.
func (q *InsertQuery) SQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	text, args := q.ins.Query()
	return text, args, nil
}

// UpdateQuery builds an UPDATE against a table.
type UpdateQuery struct {
	upd *sql.UpdateBuilder
	err error
}

// Update starts an UPDATE setting values in sorted column order.
func (t *Table) Update(values map[string]any) *UpdateQuery {
	q := &UpdateQuery{upd: sql.Dialect(t.Dialect.Builder()).Update(t.Name).Schema(t.Schema)}
	if len(values) == 0 {
		q.err = fmt.Errorf("table %q: update without values", t.Name)
		return q
	}
	cols := sortedKeys(values)
	if err := t.CheckColumns(cols...); err != nil {
		q.err = err
		return q
	}
	for _, c := range cols {
		q.upd.Set(c, values[c])
	}
	return q
}

// Where restricts the updated rows.
func (q *UpdateQuery) Where(p *sql.Predicate) *UpdateQuery {
	q.upd.Where(p)
	return q
}

// SQL implements Query.
func (q *UpdateQuery) SQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	text, args := q.upd.Query()
	return text, args, nil
}

// DeleteQuery builds a DELETE against a table.
type DeleteQuery struct {
	del *sql.DeleteBuilder
}

// Delete starts a DELETE. Without Where every row is deleted.
func (t *Table) Delete() *DeleteQuery {
	return &DeleteQuery{del: sql.Dialect(t.Dialect.Builder()).Delete(t.Name).Schema(t.Schema)}
}

// Where restricts the deleted rows.
func (q *DeleteQuery) Where(p *sql.Predicate) *DeleteQuery {
	q.del.Where(p)
	return q
}

// SQL implements Query.
func (q *DeleteQuery) SQL() (string, []any, error) {
	text, args := q.del.Query()
	return text, args, nil
}
