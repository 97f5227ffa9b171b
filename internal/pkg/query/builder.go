package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

// Builder constructs read-only SQL SELECT statements for Cloud Spanner.
// Every method returns a new Builder, so a base query can be shared and
// specialised without aliasing. Parameter names are generated (@p0, @p1, ...)
// from the order of Where calls.
type Builder struct {
	table        string
	selectCols   []string
	joins        []string
	whereClauses []Condition
	orderBy      []string
	limitVal     int64
}

// From creates a new Builder for the specified table (an alias is allowed, e.g. "sales s").
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select specifies the columns or expressions to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.selectCols = append(nb.selectCols, columns...)
	return nb
}

// LeftJoin adds a LEFT JOIN clause. on is emitted verbatim.
func (b *Builder) LeftJoin(table, on string) *Builder {
	nb := b.clone()
	nb.joins = append(nb.joins, fmt.Sprintf("LEFT JOIN %s ON %s", table, on))
	return nb
}

// Where adds a WHERE condition.
// Multiple calls are combined with AND logic.
func (b *Builder) Where(condition Condition) *Builder {
	nb := b.clone()
	nb.whereClauses = append(nb.whereClauses, condition)
	return nb
}

// OrderBy appends a sort key. Calls accumulate in order.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	nb := b.clone()
	dir := "ASC"
	if direction == Desc {
		dir = "DESC"
	}
	nb.orderBy = append(nb.orderBy, column+" "+dir)
	return nb
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	nb := b.clone()
	nb.limitVal = limit
	return nb
}

// Build constructs the final spanner.Statement with SQL and parameters.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	for _, join := range b.joins {
		sql.WriteString(" ")
		sql.WriteString(join)
	}

	if len(b.whereClauses) > 0 {
		sql.WriteString(" WHERE ")
		whereParts := make([]string, 0, len(b.whereClauses))
		paramIndex := 0
		for _, condition := range b.whereClauses {
			fragment, condParams := condition.SQL(paramIndex)
			whereParts = append(whereParts, fragment)
			for k, v := range condParams {
				params[k] = v
			}
			paramIndex += len(condParams)
		}
		sql.WriteString(strings.Join(whereParts, " AND "))
	}

	if len(b.orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limitVal > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limitVal
	}

	return spanner.Statement{
		SQL:    sql.String(),
		Params: params,
	}
}

func (b *Builder) clone() *Builder {
	nb := &Builder{
		table:        b.table,
		selectCols:   make([]string, len(b.selectCols)),
		joins:        make([]string, len(b.joins)),
		whereClauses: make([]Condition, len(b.whereClauses)),
		orderBy:      make([]string, len(b.orderBy)),
		limitVal:     b.limitVal,
	}
	copy(nb.selectCols, b.selectCols)
	copy(nb.joins, b.joins)
	copy(nb.whereClauses, b.whereClauses)
	copy(nb.orderBy, b.orderBy)
	return nb
}
