// Package client is the public API of the dynamic query layer.
package client

import (
	"errors"
	"fmt"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	// KindConnection means no connection could be obtained.
	KindConnection ErrorKind = "connection"
	// KindBuild means the statement could not be built from the input.
	KindBuild ErrorKind = "build"
	// KindExecution means the engine rejected or failed the statement.
	KindExecution ErrorKind = "execution"
)

// Sentinel errors for common error conditions.
var (
	// ErrConnection matches every connection-kind QueryError.
	ErrConnection = errors.New("dynquery: connection error")

	// ErrInvalidInput matches every build-kind QueryError.
	ErrInvalidInput = errors.New("dynquery: invalid input")

	// ErrExecution matches every execution-kind QueryError.
	ErrExecution = errors.New("dynquery: execution error")

	// ErrUniqueConstraint indicates a unique constraint violation.
	ErrUniqueConstraint = database.ErrUniqueConstraint

	// ErrForeignKeyConstraint indicates a foreign key constraint violation.
	ErrForeignKeyConstraint = database.ErrForeignKeyConstraint

	// ErrNullConstraint indicates a null constraint violation.
	ErrNullConstraint = database.ErrNullConstraint

	// ErrNoSuchTable indicates the target table does not exist.
	ErrNoSuchTable = database.ErrNoSuchTable

	// ErrInvalidIdentifier indicates a table or column name that is not a
	// plain identifier.
	ErrInvalidIdentifier = domain.ErrInvalidIdentifier

	// ErrUnknownAggregate indicates an unsupported aggregate function.
	ErrUnknownAggregate = domain.ErrUnknownAggregate
)

// buildErrors are the causes that make an error build-kind.
var buildErrors = []error{
	domain.ErrInvalidIdentifier,
	domain.ErrInvalidPagination,
	domain.ErrUnknownAggregate,
	domain.ErrEmptyValues,
	domain.ErrMissingCondition,
	domain.ErrUnsupported,
}

// QueryError is a failed operation with its classification.
type QueryError struct {
	// Kind is the failure class.
	Kind ErrorKind

	// Op is the operation (select, insert, ...).
	Op string

	// Table is the target table.
	Table string

	// ID correlates the error with the operation's log lines.
	ID string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("dynquery [%s] %s %s: %v", e.Kind, e.Op, e.Table, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is matches the kind sentinels. Other targets are found through Unwrap.
func (e *QueryError) Is(target error) bool {
	switch target {
	case ErrConnection:
		return e.Kind == KindConnection
	case ErrInvalidInput:
		return e.Kind == KindBuild
	case ErrExecution:
		return e.Kind == KindExecution
	}
	return false
}

// KindOf returns the kind of a QueryError anywhere in err's chain, or ""
// if there is none.
func KindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

// IsUniqueConstraint checks if an error is a unique constraint violation.
func IsUniqueConstraint(err error) bool {
	return errors.Is(err, ErrUniqueConstraint)
}

// IsForeignKeyConstraint checks if an error is a foreign key constraint violation.
func IsForeignKeyConstraint(err error) bool {
	return errors.Is(err, ErrForeignKeyConstraint)
}

// IsNoSuchTable checks if an error reports a missing table.
func IsNoSuchTable(err error) bool {
	return errors.Is(err, ErrNoSuchTable)
}

func isBuildError(err error) bool {
	for _, target := range buildErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
