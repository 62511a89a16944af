package client

import (
	"fmt"

	"github.com/satishbabariya/dynquery/internal/core/query/condition"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
	"github.com/satishbabariya/dynquery/internal/core/query/fields"
	"github.com/satishbabariya/dynquery/internal/core/query/filterexpr"
)

// Row is an ordered column → value record.
type Row = domain.Row

// FilterMap is a conjunction of column = value predicates.
type FilterMap = domain.FilterMap

// Condition is an immutable equality filter tree.
type Condition = domain.Condition

// OrderBy is a single-column sort.
type OrderBy = domain.OrderBy

// AggregateFunc names an aggregate function.
type AggregateFunc = domain.AggregateFunc

// Aggregate functions.
const (
	Count = domain.Count
	Sum   = domain.Sum
	Avg   = domain.Avg
	Max   = domain.Max
	Min   = domain.Min
)

// FieldResolver maps column names onto typed fields.
type FieldResolver = fields.FieldResolver

// Schema is a static table → column → type map for NewStaticResolver.
type Schema = fields.Schema

// Column type categories used in a Schema.
const (
	TypeUnknown = domain.TypeUnknown
	TypeNumeric = domain.TypeNumeric
	TypeText    = domain.TypeText
	TypeBoolean = domain.TypeBoolean
	TypeTime    = domain.TypeTime
)

// NewRow returns an empty row.
func NewRow() *Row { return domain.NewRow() }

// RowFromMap builds a row from m with keys in ascending order.
func RowFromMap(m map[string]interface{}) *Row { return domain.RowFromMap(m) }

// Eq matches rows whose column equals value.
func Eq(column string, value interface{}) *Condition { return domain.Eq(column, value) }

// And joins two conditions. A nil side yields the other.
func And(left, right *Condition) *Condition { return domain.And(left, right) }

// Or joins two conditions. A nil side yields the other.
func Or(left, right *Condition) *Condition { return domain.Or(left, right) }

// AllOf folds filters into an AND chain, nil when empty.
func AllOf(filters FilterMap) *Condition { return condition.BuildEquality(filters) }

// AnyOf folds filters into an OR chain, nil when empty.
func AnyOf(filters FilterMap) *Condition { return condition.BuildDisjunction(filters) }

// Combine returns AllOf(and) AND AnyOf(or), dropping whichever side is empty.
func Combine(and, or FilterMap) *Condition { return condition.BuildComplex(and, or) }

// ParseFilter parses an expression such as
//
//	category = 'VIP' AND (city = 'Oslo' OR country = 'SE')
//
// into a condition. A blank expression yields nil.
func ParseFilter(expr string) (*Condition, error) {
	cond, err := filterexpr.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return cond, nil
}

// SortAsc sorts ascending on column.
func SortAsc(column string) *OrderBy { return domain.NewOrderBy(column, true) }

// SortDesc sorts descending on column.
func SortDesc(column string) *OrderBy { return domain.NewOrderBy(column, false) }

// Int returns a pointer to n, for limits and offsets.
func Int(n int) *int { return &n }

// NewNameResolver returns a resolver that never consults the database.
func NewNameResolver() FieldResolver { return fields.NewNameResolver() }

// NewStaticResolver returns a resolver backed by schema.
func NewStaticResolver(schema Schema) FieldResolver { return fields.NewStaticResolver(schema) }
