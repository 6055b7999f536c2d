// Package query provides Queryset, a lazily built SQL query value.
//
// DESIGN: A Queryset describes a SELECT without executing it. Every
// refinement (Filter, OrderBy, Slice, None) returns a copy, so a base
// queryset handed to a chain of components can be reshaped step by
// step without aliasing surprises. Execution happens only on Count or
// Rows. Placeholders use '?' (sqlite).
package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type condition struct {
	expr string
	args []any
}

// Queryset is an immutable description of a SQL query.
type Queryset struct {
	db      *sql.DB
	table   string
	columns []string
	conds   []condition
	orderBy string
	limit   int
	offset  int
	none    bool
}

// New creates a queryset selecting columns from table. Limit and
// offset start unset.
func New(db *sql.DB, table string, columns ...string) *Queryset {
	return &Queryset{
		db:      db,
		table:   table,
		columns: columns,
		limit:   -1,
		offset:  -1,
	}
}

func (q *Queryset) clone() *Queryset {
	c := *q
	c.conds = make([]condition, len(q.conds))
	copy(c.conds, q.conds)
	c.columns = make([]string, len(q.columns))
	copy(c.columns, q.columns)
	return &c
}

// Filter returns a copy with an additional AND condition. expr uses
// '?' placeholders matched by args.
func (q *Queryset) Filter(expr string, args ...any) *Queryset {
	c := q.clone()
	c.conds = append(c.conds, condition{expr: expr, args: args})
	return c
}

// FilterIn returns a copy constrained to column IN (values...). An
// empty values list yields an always-false condition, matching the
// intuition that "in nothing" selects nothing.
func (q *Queryset) FilterIn(column string, values ...any) *Queryset {
	if len(values) == 0 {
		return q.Filter("1=0")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	return q.Filter(fmt.Sprintf("%s IN (%s)", column, placeholders), values...)
}

// OrderBy returns a copy ordered by the given expression, replacing
// any previous ordering.
func (q *Queryset) OrderBy(expr string) *Queryset {
	c := q.clone()
	c.orderBy = expr
	return c
}

// Slice returns a copy restricted to limit rows starting at offset.
func (q *Queryset) Slice(offset, limit int) *Queryset {
	c := q.clone()
	c.offset = offset
	c.limit = limit
	return c
}

// None returns a copy that matches no rows and never touches the
// database. Used by access-control style pre-hooks to short-circuit.
func (q *Queryset) None() *Queryset {
	c := q.clone()
	c.none = true
	return c
}

// IsNone reports whether the queryset is the empty marker.
func (q *Queryset) IsNone() bool { return q.none }

// SQL renders the SELECT statement and its arguments. Exposed for
// inspection in tests.
func (q *Queryset) SQL() (string, []any) {
	var b strings.Builder
	cols := "*"
	if len(q.columns) > 0 {
		cols = strings.Join(q.columns, ", ")
	}
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, q.table)
	args := q.whereClause(&b)
	if q.orderBy != "" {
		fmt.Fprintf(&b, " ORDER BY %s", q.orderBy)
	}
	if q.limit >= 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.limit)
	}
	if q.offset >= 0 {
		fmt.Fprintf(&b, " OFFSET %d", q.offset)
	}
	return b.String(), args
}

func (q *Queryset) whereClause(b *strings.Builder) []any {
	var args []any
	if q.none {
		b.WriteString(" WHERE 1=0")
		return nil
	}
	for i, c := range q.conds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(b, "(%s)", c.expr)
		args = append(args, c.args...)
	}
	return args
}

// Count executes SELECT COUNT(*) with the queryset's conditions.
// Slicing is ignored, so a count taken before Slice stays meaningful
// after it.
func (q *Queryset) Count(ctx context.Context) (int, error) {
	if q.none {
		return 0, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT COUNT(*) FROM %s", q.table)
	args := q.whereClause(&b)
	var n int
	if err := q.db.QueryRowContext(ctx, b.String(), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("queryset count: %w", err)
	}
	return n, nil
}

// Rows executes the query. The caller owns the returned rows and must
// close them.
func (q *Queryset) Rows(ctx context.Context) (*sql.Rows, error) {
	stmt, args := q.SQL()
	rows, err := q.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("queryset rows: %w", err)
	}
	return rows, nil
}
