package fields

import (
	"context"
	"strings"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// Schema maps table → column → declared type category.
type Schema map[string]map[string]domain.ColumnType

// StaticResolver resolves fields against an in-memory schema. Columns the
// schema does not know resolve with an unknown type.
type StaticResolver struct {
	schema Schema
}

// NewStaticResolver creates a resolver backed by schema.
func NewStaticResolver(schema Schema) *StaticResolver {
	return &StaticResolver{schema: schema}
}

// ResolveFields implements FieldResolver.
func (r *StaticResolver) ResolveFields(ctx context.Context, table string, columns []string) (domain.FieldList, error) {
	return resolveNames(table, columns, func(name string) domain.ColumnType {
		return r.lookup(table, name)
	})
}

// ResolveField implements FieldResolver.
func (r *StaticResolver) ResolveField(ctx context.Context, table, column string) (domain.Field, error) {
	return resolveOne(table, column, r.lookup(table, column))
}

// TableExists reports whether the schema declares table.
func (r *StaticResolver) TableExists(ctx context.Context, table string) (bool, error) {
	_, ok := r.table(table)
	return ok, nil
}

func (r *StaticResolver) lookup(table, column string) domain.ColumnType {
	cols, ok := r.table(table)
	if !ok {
		return domain.TypeUnknown
	}
	for name, typ := range cols {
		if strings.EqualFold(name, column) {
			return typ
		}
	}
	return domain.TypeUnknown
}

func (r *StaticResolver) table(name string) (map[string]domain.ColumnType, bool) {
	for t, cols := range r.schema {
		if strings.EqualFold(t, name) {
			return cols, true
		}
	}
	return nil, false
}

// Ensure StaticResolver implements FieldResolver interface.
var _ FieldResolver = (*StaticResolver)(nil)
