package domain

import (
	"fmt"
	"strings"
)

// ConditionKind tags the variants of a Condition node.
type ConditionKind int

const (
	// CondEq is a single column = value predicate.
	CondEq ConditionKind = iota
	// CondAnd combines two conditions with AND.
	CondAnd
	// CondOr combines two conditions with OR.
	CondOr
)

// Condition is an immutable boolean expression tree:
//
//	Eq(column, value) | And(left, right) | Or(left, right)
//
// It only describes a predicate; compiling or evaluating it has no side effects.
type Condition struct {
	kind   ConditionKind
	column string
	value  interface{}
	left   *Condition
	right  *Condition
}

// Eq builds an equality predicate.
func Eq(column string, value interface{}) *Condition {
	return &Condition{kind: CondEq, column: column, value: value}
}

// And combines two conditions. A nil side yields the other side.
func And(left, right *Condition) *Condition {
	return combine(CondAnd, left, right)
}

// Or combines two conditions. A nil side yields the other side.
func Or(left, right *Condition) *Condition {
	return combine(CondOr, left, right)
}

func combine(kind ConditionKind, left, right *Condition) *Condition {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}
	return &Condition{kind: kind, left: left, right: right}
}

// Kind returns the node variant.
func (c *Condition) Kind() ConditionKind { return c.kind }

// Column returns the column of an Eq node.
func (c *Condition) Column() string { return c.column }

// Value returns the value of an Eq node.
func (c *Condition) Value() interface{} { return c.value }

// Left returns the left child of an And/Or node.
func (c *Condition) Left() *Condition { return c.left }

// Right returns the right child of an And/Or node.
func (c *Condition) Right() *Condition { return c.right }

// Columns lists every column referenced by the tree, left to right.
func (c *Condition) Columns() []string {
	if c == nil {
		return nil
	}
	if c.kind == CondEq {
		return []string{c.column}
	}
	return append(c.left.Columns(), c.right.Columns()...)
}

// Matches evaluates the condition against a row in memory.
// A missing column never matches.
func (c *Condition) Matches(row *Row) bool {
	if c == nil {
		return true
	}
	switch c.kind {
	case CondEq:
		v, ok := row.Get(c.column)
		return ok && ValuesEqual(v, c.value)
	case CondAnd:
		return c.left.Matches(row) && c.right.Matches(row)
	case CondOr:
		return c.left.Matches(row) || c.right.Matches(row)
	}
	return false
}

// String renders the tree with explicit parentheses, e.g.
// ((a = 1 AND b = "x") OR c = true).
func (c *Condition) String() string {
	if c == nil {
		return "<nil>"
	}
	var b strings.Builder
	c.write(&b)
	return b.String()
}

func (c *Condition) write(b *strings.Builder) {
	switch c.kind {
	case CondEq:
		fmt.Fprintf(b, "%s = %#v", c.column, c.value)
	case CondAnd, CondOr:
		op := " AND "
		if c.kind == CondOr {
			op = " OR "
		}
		b.WriteByte('(')
		c.left.write(b)
		b.WriteString(op)
		c.right.write(b)
		b.WriteByte(')')
	}
}
