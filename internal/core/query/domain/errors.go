package domain

import "errors"

// Statement-build errors. They are detected before any SQL reaches the engine.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidPagination = errors.New("invalid pagination")
	ErrUnknownAggregate  = errors.New("unknown aggregate function")
	ErrEmptyValues       = errors.New("no values to write")
	ErrMissingCondition  = errors.New("missing condition")
	ErrUnsupported       = errors.New("unsupported operation")
)
