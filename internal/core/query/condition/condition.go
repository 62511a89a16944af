// Package condition turns filter maps into Condition trees.
//
// The functions here are pure: they never touch a database, so the exact
// shape of every tree can be tested directly.
package condition

import (
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// BuildEquality folds filters into a left-associative AND chain:
//
//	((f1 = v1 AND f2 = v2) AND f3 = v3)
//
// Entries are folded in ascending column order. It returns nil when filters
// is empty or nil.
func BuildEquality(filters domain.FilterMap) *domain.Condition {
	return fold(filters, domain.And)
}

// BuildDisjunction folds filters into a left-associative OR chain.
// It returns nil when filters is empty or nil.
func BuildDisjunction(filters domain.FilterMap) *domain.Condition {
	return fold(filters, domain.Or)
}

// BuildComplex combines an AND chain built from and with an OR chain built
// from or:
//
//	both present  -> AND(andChain, orChain)
//	only and      -> andChain
//	only or       -> orChain
//	neither       -> nil
func BuildComplex(and, or domain.FilterMap) *domain.Condition {
	return domain.And(BuildEquality(and), BuildDisjunction(or))
}

// Single builds the one-column predicate used by UPDATE and DELETE.
func Single(column string, value interface{}) *domain.Condition {
	return domain.Eq(column, value)
}

func fold(filters domain.FilterMap, join func(l, r *domain.Condition) *domain.Condition) *domain.Condition {
	var cond *domain.Condition
	for _, column := range filters.SortedKeys() {
		cond = join(cond, domain.Eq(column, filters[column]))
	}
	return cond
}
