// Package domain contains the core entities of the dynamic query layer.
package domain

import (
	"fmt"
	"strings"
)

// Query describes one statement against a single table.
// It is built fresh for every call and never mutated after compilation.
type Query struct {
	Table      string
	Operation  QueryOperation
	Fields     FieldList
	Condition  *Condition // Takes priority over Filters when set
	Filters    FilterMap
	OrderBy    *OrderBy
	Pagination Pagination
	Values     *Row         // Assignments for INSERT and UPDATE
	Aggregate  *Aggregation // Target of an AGGREGATE operation

	// AllRows lets an UPDATE run without a condition. DELETE ignores it.
	AllRows bool
}

// QueryOperation represents the type of statement.
type QueryOperation string

const (
	// Select reads rows.
	Select QueryOperation = "select"
	// Insert writes one row.
	Insert QueryOperation = "insert"
	// Update modifies matching rows.
	Update QueryOperation = "update"
	// Delete removes matching rows.
	Delete QueryOperation = "delete"
	// Aggregate computes a single scalar.
	Aggregate QueryOperation = "aggregate"
)

// FilterMap maps column names to values; every entry is an equality predicate
// and all entries are combined with AND.
type FilterMap map[string]interface{}

// SortedKeys returns the filter columns in ascending order.
func (f FilterMap) SortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return keys
}

// OrderBy sorts on a single column.
type OrderBy struct {
	Field     string
	Direction SortDirection
}

// SortDirection represents sort direction.
type SortDirection string

const (
	// Asc sorts ascending.
	Asc SortDirection = "ASC"
	// Desc sorts descending.
	Desc SortDirection = "DESC"
)

// NewOrderBy returns nil when column is empty.
func NewOrderBy(column string, ascending bool) *OrderBy {
	if column == "" {
		return nil
	}
	dir := Desc
	if ascending {
		dir = Asc
	}
	return &OrderBy{Field: column, Direction: dir}
}

// Pagination holds optional LIMIT and OFFSET values.
type Pagination struct {
	Limit  *int
	Offset *int
}

// HasLimit reports whether a LIMIT was requested.
func (p Pagination) HasLimit() bool { return p.Limit != nil }

// HasOffset reports whether an OFFSET was requested.
func (p Pagination) HasOffset() bool { return p.Offset != nil }

// Validate rejects negative values.
func (p Pagination) Validate() error {
	if p.Limit != nil && *p.Limit < 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidPagination, *p.Limit)
	}
	if p.Offset != nil && *p.Offset < 0 {
		return fmt.Errorf("%w: offset %d", ErrInvalidPagination, *p.Offset)
	}
	return nil
}

// Aggregation is a named reduction applied to one column.
type Aggregation struct {
	Function AggregateFunc
	Field    Field
}

// AggregateFunc represents aggregation functions.
type AggregateFunc string

const (
	// Count counts non-null values.
	Count AggregateFunc = "COUNT"
	// Sum sums field values.
	Sum AggregateFunc = "SUM"
	// Avg calculates the average.
	Avg AggregateFunc = "AVG"
	// Max finds the maximum value.
	Max AggregateFunc = "MAX"
	// Min finds the minimum value.
	Min AggregateFunc = "MIN"
)

// ParseAggregateFunc accepts function names in any case.
func ParseAggregateFunc(name string) (AggregateFunc, error) {
	switch fn := AggregateFunc(strings.ToUpper(strings.TrimSpace(name))); fn {
	case Count, Sum, Avg, Max, Min:
		return fn, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAggregate, name)
	}
}

// SQL represents generated SQL.
type SQL struct {
	Query   string
	Args    []interface{}
	Dialect SQLDialect
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// ParseDialect maps provider names used in configuration to a dialect.
func ParseDialect(provider string) (SQLDialect, error) {
	switch strings.ToLower(provider) {
	case "postgres", "postgresql":
		return PostgreSQL, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
}

// CompiledQuery is a statement ready for execution together with the field
// list that drives row extraction.
type CompiledQuery struct {
	SQL       SQL
	Operation QueryOperation
	Table     string
	Fields    FieldList
}
