package client

import (
	"context"
	"fmt"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/adapters/database/factory"
	"github.com/satishbabariya/dynquery/internal/core/query/condition"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// Client offers the string-driven entrypoints with the legacy failure
// contract: nothing is returned as an error. A failed read yields an empty
// slice, a failed write does nothing and a failed aggregate yields nil. Each
// failure is logged at Error level with its kind and correlation id.
//
// Use Store for the same operations with typed errors.
type Client struct {
	store   *Store
	adapter database.Adapter
}

// NewClient creates a client on a connected adapter.
func NewClient(adapter database.Adapter, opts ...Option) *Client {
	return &Client{
		store:   NewStore(adapter, opts...),
		adapter: adapter,
	}
}

// Open creates and connects an adapter for provider (postgres, mysql or
// sqlite) and returns a client on it.
func Open(ctx context.Context, provider, url string, opts ...Option) (*Client, error) {
	adapter, err := factory.NewAdapter(database.Config{Provider: provider, URL: url})
	if err != nil {
		return nil, &QueryError{Kind: KindBuild, Op: "open", Cause: err}
	}
	if err := adapter.Connect(ctx); err != nil {
		return nil, &QueryError{Kind: KindConnection, Op: "open", Cause: err}
	}
	return NewClient(adapter, opts...), nil
}

// Store returns the typed API sharing this client's adapter and options.
func (c *Client) Store() *Store {
	return c.store
}

// Close disconnects the adapter.
func (c *Client) Close(ctx context.Context) error {
	return c.adapter.Disconnect(ctx)
}

// Select returns the named columns of every row, or all columns when none
// are named.
func (c *Client) Select(ctx context.Context, table string, columns ...string) []*Row {
	return c.find(ctx, table, FindRequest{Columns: columns})
}

// SelectWithFilters returns the rows matching every filter. Empty filters
// behave as Select.
func (c *Client) SelectWithFilters(ctx context.Context, table string, filters FilterMap, columns []string) []*Row {
	return c.find(ctx, table, FindRequest{Columns: columns, Filters: filters})
}

// SelectWithFilterAndSort adds an optional sort and page. An empty
// sortColumn means unsorted; nil limit and offset mean unbounded.
func (c *Client) SelectWithFilterAndSort(ctx context.Context, table string, filters FilterMap, sortColumn string, ascending bool, columns []string, limit, offset *int) []*Row {
	return c.find(ctx, table, FindRequest{
		Columns: columns,
		Filters: filters,
		Sort:    sortBy(sortColumn, ascending),
		Limit:   limit,
		Offset:  offset,
	})
}

// SelectWithComplexFilters returns rows matching every entry of and and at
// least one entry of or. An empty side places no constraint.
func (c *Client) SelectWithComplexFilters(ctx context.Context, table string, and, or FilterMap, columns []string, sortColumn string, ascending bool, limit, offset *int) []*Row {
	return c.find(ctx, table, FindRequest{
		Columns: columns,
		Where:   condition.BuildComplex(and, or),
		Sort:    sortBy(sortColumn, ascending),
		Limit:   limit,
		Offset:  offset,
	})
}

// Insert writes values as one row.
func (c *Client) Insert(ctx context.Context, table string, values *Row) {
	if _, err := c.store.Insert(ctx, table, values); err != nil {
		c.fail(OpInsert, table, err)
	}
}

// Update sets values where conditionColumn equals conditionValue. Empty
// values are a no-op.
func (c *Client) Update(ctx context.Context, table string, values *Row, conditionColumn string, conditionValue interface{}) {
	if _, err := c.store.Update(ctx, table, values, condition.Single(conditionColumn, conditionValue)); err != nil {
		c.fail(OpUpdate, table, err)
	}
}

// Delete removes rows where conditionColumn equals conditionValue.
func (c *Client) Delete(ctx context.Context, table string, conditionColumn string, conditionValue interface{}) {
	if _, err := c.store.Delete(ctx, table, condition.Single(conditionColumn, conditionValue)); err != nil {
		c.fail(OpDelete, table, err)
	}
}

// GetAggregateValue computes fn over column for the rows matching filters,
// or returns nil.
func (c *Client) GetAggregateValue(ctx context.Context, table, column string, fn AggregateFunc, filters FilterMap) interface{} {
	value, err := c.store.Aggregate(ctx, table, column, fn, filters)
	if err != nil {
		c.fail(OpAggregate, table, err)
		return nil
	}
	return value
}

// Count returns the number of rows matching filters, 0 on failure.
func (c *Client) Count(ctx context.Context, table string, filters FilterMap) int64 {
	switch n := c.GetAggregateValue(ctx, table, "", Count, filters).(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func (c *Client) find(ctx context.Context, table string, req FindRequest) []*Row {
	rows, err := c.store.Find(ctx, table, req)
	if err != nil {
		c.fail(OpSelect, table, err)
		return []*Row{}
	}
	return rows
}

func (c *Client) fail(op, table string, err error) {
	attrs := []any{"op", op, "table", table, "kind", string(KindOf(err)), "error", err}
	if qe, ok := err.(*QueryError); ok {
		attrs = append(attrs, "op_id", qe.ID)
	}
	c.store.logger().Error(fmt.Sprintf("%s failed", op), attrs...)
}

func sortBy(column string, ascending bool) *OrderBy {
	return domain.NewOrderBy(column, ascending)
}
