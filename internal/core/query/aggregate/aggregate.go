// Package aggregate maps a named aggregate function and a field to a SQL
// expression.
package aggregate

import (
	"fmt"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// Expression is a compiled aggregate ready for a SELECT list.
type Expression struct {
	Function domain.AggregateFunc
	Field    domain.Field
	SQL      string
	// Fallback is set when SUM/AVG was applied to a non-numeric column
	// through a cast. The engine decides what the cast yields.
	Fallback bool
}

// Apply builds the aggregate expression for fn over field.
//
//	COUNT      always valid; COUNT(*) for the wildcard field
//	SUM, AVG   native on numeric fields, CAST(col AS <numeric>) otherwise
//	MAX, MIN   always valid
func Apply(dialect domain.SQLDialect, fn domain.AggregateFunc, field domain.Field) (Expression, error) {
	expr := Expression{Function: fn, Field: field}
	column := dialect.QuoteIdentifier(field.Name)

	switch fn {
	case domain.Count:
		expr.SQL = fmt.Sprintf("COUNT(%s)", column)
	case domain.Sum, domain.Avg:
		if field.IsWildcard() {
			return Expression{}, fmt.Errorf("%w: %s requires a column", domain.ErrUnknownAggregate, fn)
		}
		if field.IsNumeric() {
			expr.SQL = fmt.Sprintf("%s(%s)", fn, column)
		} else {
			expr.SQL = fmt.Sprintf("%s(CAST(%s AS %s))", fn, column, dialect.NumericCastType())
			expr.Fallback = true
		}
	case domain.Max, domain.Min:
		if field.IsWildcard() {
			return Expression{}, fmt.Errorf("%w: %s requires a column", domain.ErrUnknownAggregate, fn)
		}
		expr.SQL = fmt.Sprintf("%s(%s)", fn, column)
	default:
		return Expression{}, fmt.Errorf("%w: %q", domain.ErrUnknownAggregate, fn)
	}

	return expr, nil
}
