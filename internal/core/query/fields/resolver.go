// Package fields resolves string column names into typed field handles.
package fields

import (
	"context"
	"fmt"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// FieldResolver maps column names to field handles. The same resolved list
// drives both the SELECT clause and row extraction.
type FieldResolver interface {
	// ResolveFields returns the wildcard list for nil/empty columns (or a lone
	// "*"), otherwise one field per name in input order.
	ResolveFields(ctx context.Context, table string, columns []string) (domain.FieldList, error)

	// ResolveField returns a single field including its declared type.
	ResolveField(ctx context.Context, table, column string) (domain.Field, error)
}

// NameResolver resolves names without any schema knowledge. Every field has
// an unknown type.
type NameResolver struct{}

// NewNameResolver creates a schema-less resolver.
func NewNameResolver() *NameResolver {
	return &NameResolver{}
}

// ResolveFields implements FieldResolver.
func (r *NameResolver) ResolveFields(ctx context.Context, table string, columns []string) (domain.FieldList, error) {
	return resolveNames(table, columns, func(string) domain.ColumnType { return domain.TypeUnknown })
}

// ResolveField implements FieldResolver.
func (r *NameResolver) ResolveField(ctx context.Context, table, column string) (domain.Field, error) {
	return resolveOne(table, column, domain.TypeUnknown)
}

func resolveNames(table string, columns []string, typeOf func(string) domain.ColumnType) (domain.FieldList, error) {
	if err := domain.ValidateIdentifier(table); err != nil {
		return domain.FieldList{}, fmt.Errorf("table: %w", err)
	}
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == domain.Wildcard) {
		return domain.WildcardFields(table), nil
	}

	list := domain.FieldList{Fields: make([]domain.Field, 0, len(columns))}
	for _, name := range columns {
		if err := domain.ValidateIdentifier(name); err != nil {
			return domain.FieldList{}, fmt.Errorf("column: %w", err)
		}
		list.Fields = append(list.Fields, domain.Field{Table: table, Name: name, Type: typeOf(name)})
	}
	return list, nil
}

func resolveOne(table, column string, typ domain.ColumnType) (domain.Field, error) {
	if err := domain.ValidateIdentifier(table); err != nil {
		return domain.Field{}, fmt.Errorf("table: %w", err)
	}
	if column == domain.Wildcard {
		return domain.Field{Table: table, Name: domain.Wildcard, Type: domain.TypeUnknown}, nil
	}
	if err := domain.ValidateIdentifier(column); err != nil {
		return domain.Field{}, fmt.Errorf("column: %w", err)
	}
	return domain.Field{Table: table, Name: column, Type: typ}, nil
}

// Ensure NameResolver implements FieldResolver interface.
var _ FieldResolver = (*NameResolver)(nil)
