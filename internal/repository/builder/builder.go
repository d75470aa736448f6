package builder

import (
	"fmt"
	"strings"
)

// PlaceholderFormat controls how "?" markers are rendered in the final SQL.
type PlaceholderFormat int

const (
	// Dollar renders numbered markers ($1, $2, ...) as Postgres expects.
	Dollar PlaceholderFormat = iota
	// Question keeps positional "?" markers, as SQLite expects.
	Question
)

func (p PlaceholderFormat) marker(n int) string {
	if p == Question {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// SQLBuilder helps construct SQL queries dynamically.
type SQLBuilder struct {
	format    PlaceholderFormat
	table     string
	columns   []string
	values    []interface{}
	where     []string
	args      []interface{}
	orderBy   []string
	returning []string
	limit     int
	offset    int
	isInsert  bool
	isSelect  bool
}

// NewSQLBuilder creates a new instance of SQLBuilder using Dollar placeholders.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// NewSQLBuilderWithFormat creates a builder for the given placeholder style.
func NewSQLBuilderWithFormat(format PlaceholderFormat) *SQLBuilder {
	return &SQLBuilder{format: format}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.isSelect = true
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.isInsert = true
	b.table = table
	b.columns = cols
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Values specifies the values for insertion.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.values = vals
	b.args = append(b.args, vals...)
	return b
}

// Returning appends a RETURNING clause to an insert.
func (b *SQLBuilder) Returning(cols ...string) *SQLBuilder {
	b.returning = cols
	return b
}

// Where adds a condition to the query. Conditions are joined with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.args = append(b.args, args...)
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Limit adds a LIMIT clause.
func (b *SQLBuilder) Limit(limit int) *SQLBuilder {
	b.limit = limit
	return b
}

// Offset adds an OFFSET clause.
func (b *SQLBuilder) Offset(offset int) *SQLBuilder {
	b.offset = offset
	return b
}

// BuildSafe constructs the final SQL string and arguments with safety validation.
// Returns an error if the number of placeholders doesn't match the number of arguments.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	sql, args := b.Build()

	placeholderCount := 0
	if b.format == Question {
		placeholderCount = strings.Count(sql, "?")
	} else {
		for i := 1; i <= len(args)+1; i++ {
			if !strings.Contains(sql, fmt.Sprintf("$%d", i)) {
				break
			}
			placeholderCount++
		}
	}

	if placeholderCount != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", placeholderCount, len(args))
	}

	return sql, args, nil
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder

	if b.isInsert {
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES (")
		placeholders := make([]string, len(b.values))
		for i := range b.values {
			placeholders[i] = b.format.marker(i + 1)
		}
		sb.WriteString(strings.Join(placeholders, ", "))
		sb.WriteString(")")
		if len(b.returning) > 0 {
			sb.WriteString(" RETURNING ")
			sb.WriteString(strings.Join(b.returning, ", "))
		}
		return sb.String(), b.args
	}

	if b.isSelect {
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
	}

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		argIndex := 1
		parts := strings.Split(strings.Join(b.where, " AND "), "?")
		for i, part := range parts {
			sb.WriteString(part)
			if i < len(parts)-1 {
				sb.WriteString(b.format.marker(argIndex))
				argIndex++
			}
		}
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", b.limit))
	}

	if b.offset > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", b.offset))
	}

	return sb.String(), b.args
}
