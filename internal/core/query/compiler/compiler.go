// Package compiler assembles SQL statements from queries.
package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/satishbabariya/dynquery/internal/core/query/aggregate"
	"github.com/satishbabariya/dynquery/internal/core/query/condition"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// SQLCompiler turns a domain.Query into dialect-specific SQL. Identifiers are
// validated and quoted; values are always bound as parameters.
type SQLCompiler struct {
	dialect domain.SQLDialect
}

// NewSQLCompiler creates a new SQL compiler.
func NewSQLCompiler(dialect domain.SQLDialect) *SQLCompiler {
	return &SQLCompiler{
		dialect: dialect,
	}
}

// Dialect returns the compiler's dialect.
func (c *SQLCompiler) Dialect() domain.SQLDialect {
	return c.dialect
}

// Compile compiles a query to an executable form.
func (c *SQLCompiler) Compile(ctx context.Context, query *domain.Query) (*domain.CompiledQuery, error) {
	if query == nil {
		return nil, fmt.Errorf("%w: nil query", domain.ErrUnsupported)
	}
	if err := domain.ValidateIdentifier(query.Table); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}

	var (
		stmt *statement
		err  error
	)
	switch query.Operation {
	case domain.Select:
		stmt, err = c.compileSelect(query)
	case domain.Insert:
		stmt, err = c.compileInsert(query)
	case domain.Update:
		stmt, err = c.compileUpdate(query)
	case domain.Delete:
		stmt, err = c.compileDelete(query)
	case domain.Aggregate:
		stmt, err = c.compileAggregate(query)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupported, query.Operation)
	}
	if err != nil {
		return nil, err
	}

	fieldList := query.Fields
	if len(fieldList.Fields) == 0 {
		fieldList = domain.WildcardFields(query.Table)
	}

	return &domain.CompiledQuery{
		SQL: domain.SQL{
			Query:   c.dialect.Rebind(stmt.sql.String()),
			Args:    stmt.args,
			Dialect: c.dialect,
		},
		Operation: query.Operation,
		Table:     query.Table,
		Fields:    fieldList,
	}, nil
}

// statement accumulates SQL text with ? placeholders and the bound args.
type statement struct {
	sql  strings.Builder
	args []interface{}
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

func (s *statement) bind(v interface{}) {
	s.sql.WriteByte('?')
	s.args = append(s.args, v)
}

// compileSelect is the single linear assembler for reads. Clauses are appended
// in the fixed order FROM, WHERE, ORDER BY, LIMIT, OFFSET and each one only
// when its part of the query is present.
func (c *SQLCompiler) compileSelect(query *domain.Query) (*statement, error) {
	if err := query.Pagination.Validate(); err != nil {
		return nil, err
	}

	stmt := &statement{}

	// SELECT clause
	cols, err := c.selectList(query.Fields)
	if err != nil {
		return nil, err
	}
	stmt.write("SELECT ", cols)

	// FROM clause
	stmt.write(" FROM ", c.dialect.QuoteIdentifier(query.Table))

	// WHERE clause
	if err := c.writeWhere(stmt, effectiveCondition(query)); err != nil {
		return nil, err
	}

	// ORDER BY clause
	if query.OrderBy != nil {
		if err := domain.ValidateIdentifier(query.OrderBy.Field); err != nil {
			return nil, fmt.Errorf("sort column: %w", err)
		}
		direction := domain.Asc
		if query.OrderBy.Direction == domain.Desc {
			direction = domain.Desc
		}
		stmt.write(" ORDER BY ", c.dialect.QuoteIdentifier(query.OrderBy.Field), " ", string(direction))
	}

	// LIMIT clause
	page := query.Pagination
	switch {
	case page.HasLimit():
		stmt.write(" LIMIT ")
		stmt.bind(*page.Limit)
	case page.HasOffset() && c.dialect.UnboundedLimit() != "":
		stmt.write(" LIMIT ", c.dialect.UnboundedLimit())
	}

	// OFFSET clause
	if page.HasOffset() {
		stmt.write(" OFFSET ")
		stmt.bind(*page.Offset)
	}

	return stmt, nil
}

func (c *SQLCompiler) compileInsert(query *domain.Query) (*statement, error) {
	if query.Values.Len() == 0 {
		return nil, fmt.Errorf("insert into %s: %w", query.Table, domain.ErrEmptyValues)
	}

	stmt := &statement{}
	stmt.write("INSERT INTO ", c.dialect.QuoteIdentifier(query.Table), " (")

	keys := query.Values.Keys()
	for i, col := range keys {
		if err := domain.ValidateIdentifier(col); err != nil {
			return nil, fmt.Errorf("column: %w", err)
		}
		if i > 0 {
			stmt.write(", ")
		}
		stmt.write(c.dialect.QuoteIdentifier(col))
	}

	stmt.write(") VALUES (")
	for i, v := range query.Values.Values() {
		if i > 0 {
			stmt.write(", ")
		}
		stmt.bind(v)
	}
	stmt.write(")")

	return stmt, nil
}

func (c *SQLCompiler) compileUpdate(query *domain.Query) (*statement, error) {
	if query.Values.Len() == 0 {
		return nil, fmt.Errorf("update %s: %w", query.Table, domain.ErrEmptyValues)
	}
	where := effectiveCondition(query)
	if where == nil && !query.AllRows {
		return nil, fmt.Errorf("update %s: %w", query.Table, domain.ErrMissingCondition)
	}

	stmt := &statement{}
	stmt.write("UPDATE ", c.dialect.QuoteIdentifier(query.Table), " SET ")

	var setErr error
	i := 0
	query.Values.Range(func(col string, v interface{}) bool {
		if setErr = domain.ValidateIdentifier(col); setErr != nil {
			return false
		}
		if i > 0 {
			stmt.write(", ")
		}
		stmt.write(c.dialect.QuoteIdentifier(col), " = ")
		stmt.bind(v)
		i++
		return true
	})
	if setErr != nil {
		return nil, fmt.Errorf("column: %w", setErr)
	}

	if where == nil {
		return stmt, nil
	}
	if err := c.writeWhere(stmt, where); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (c *SQLCompiler) compileDelete(query *domain.Query) (*statement, error) {
	where := effectiveCondition(query)
	if where == nil {
		return nil, fmt.Errorf("delete from %s: %w", query.Table, domain.ErrMissingCondition)
	}

	stmt := &statement{}
	stmt.write("DELETE FROM ", c.dialect.QuoteIdentifier(query.Table))
	if err := c.writeWhere(stmt, where); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (c *SQLCompiler) compileAggregate(query *domain.Query) (*statement, error) {
	if query.Aggregate == nil {
		return nil, fmt.Errorf("aggregate on %s: %w", query.Table, domain.ErrUnknownAggregate)
	}
	if !query.Aggregate.Field.IsWildcard() {
		if err := domain.ValidateIdentifier(query.Aggregate.Field.Name); err != nil {
			return nil, fmt.Errorf("column: %w", err)
		}
	}

	expr, err := aggregate.Apply(c.dialect, query.Aggregate.Function, query.Aggregate.Field)
	if err != nil {
		return nil, err
	}

	stmt := &statement{}
	stmt.write("SELECT ", expr.SQL, " FROM ", c.dialect.QuoteIdentifier(query.Table))
	if err := c.writeWhere(stmt, effectiveCondition(query)); err != nil {
		return nil, err
	}
	return stmt, nil
}

// effectiveCondition prefers an explicit condition over the filter map.
func effectiveCondition(query *domain.Query) *domain.Condition {
	if query.Condition != nil {
		return query.Condition
	}
	return condition.BuildEquality(query.Filters)
}

func (c *SQLCompiler) selectList(list domain.FieldList) (string, error) {
	if list.IsWildcard() {
		return domain.Wildcard, nil
	}
	cols := make([]string, len(list.Fields))
	for i, f := range list.Fields {
		if err := domain.ValidateIdentifier(f.Name); err != nil {
			return "", fmt.Errorf("column: %w", err)
		}
		cols[i] = c.dialect.QuoteIdentifier(f.Name)
	}
	return strings.Join(cols, ", "), nil
}

func (c *SQLCompiler) writeWhere(stmt *statement, cond *domain.Condition) error {
	if cond == nil {
		return nil
	}
	for _, col := range cond.Columns() {
		if err := domain.ValidateIdentifier(col); err != nil {
			return fmt.Errorf("filter column: %w", err)
		}
	}
	stmt.write(" WHERE ")
	c.writeCondition(stmt, cond)
	return nil
}

// writeCondition renders the tree; every AND/OR node is parenthesized so the
// text mirrors the tree's associativity.
func (c *SQLCompiler) writeCondition(stmt *statement, cond *domain.Condition) {
	switch cond.Kind() {
	case domain.CondEq:
		stmt.write(c.dialect.QuoteIdentifier(cond.Column()), " = ")
		stmt.bind(cond.Value())
	case domain.CondAnd, domain.CondOr:
		op := " AND "
		if cond.Kind() == domain.CondOr {
			op = " OR "
		}
		stmt.write("(")
		c.writeCondition(stmt, cond.Left())
		stmt.write(op)
		c.writeCondition(stmt, cond.Right())
		stmt.write(")")
	}
}
