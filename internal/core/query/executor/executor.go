// Package executor runs compiled statements and extracts rows.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// Session is the slice of a connection the executor needs. *sqlx.Conn,
// *sqlx.DB and *sqlx.Tx all satisfy it.
type Session interface {
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// QueryExecutor executes compiled queries on a session.
type QueryExecutor struct{}

// NewQueryExecutor creates a new query executor.
func NewQueryExecutor() *QueryExecutor {
	return &QueryExecutor{}
}

// FetchRows executes a SELECT and returns its rows. The result is never nil.
func (e *QueryExecutor) FetchRows(ctx context.Context, sess Session, query *domain.CompiledQuery) ([]*domain.Row, error) {
	rows, err := sess.QueryxContext(ctx, query.SQL.Query, query.SQL.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	// Get column names
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := make([]*domain.Row, 0)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, ToRow(columns, values, query.Fields))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// FetchScalar executes a single-row, single-column query. An empty result
// yields nil.
func (e *QueryExecutor) FetchScalar(ctx context.Context, sess Session, query *domain.CompiledQuery) (interface{}, error) {
	var value interface{}
	err := sess.QueryRowxContext(ctx, query.SQL.Query, query.SQL.Args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scalar: %w", err)
	}
	return domain.NormalizeValue(value), nil
}

// Exec executes a mutation and returns rows affected.
func (e *QueryExecutor) Exec(ctx context.Context, sess Session, query *domain.CompiledQuery) (int64, error) {
	result, err := sess.ExecContext(ctx, query.SQL.Query, query.SQL.Args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute %s: %w", query.Operation, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
