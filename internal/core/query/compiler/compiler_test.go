package compiler_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dynquery/internal/core/query/compiler"
	"github.com/satishbabariya/dynquery/internal/core/query/condition"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

func intPtr(i int) *int { return &i }

func fieldList(table string, names ...string) domain.FieldList {
	l := domain.FieldList{}
	for _, n := range names {
		l.Fields = append(l.Fields, domain.Field{Table: table, Name: n})
	}
	return l
}

func TestCompiler_Select_Wildcard(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.SQLite)

	compiled, err := comp.Compile(context.Background(), &domain.Query{
		Table:     "Event",
		Operation: domain.Select,
	})
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "Event"`, compiled.SQL.Query)
	assert.Empty(t, compiled.SQL.Args)
	assert.True(t, compiled.Fields.IsWildcard())
}

func TestCompiler_Select_Columns(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.MySQL)

	compiled, err := comp.Compile(context.Background(), &domain.Query{
		Table:     "Event",
		Operation: domain.Select,
		Fields:    fieldList("Event", "event_id", "event_name"),
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT `event_id`, `event_name` FROM `Event`", compiled.SQL.Query)
	assert.Equal(t, []string{"event_id", "event_name"}, compiled.Fields.Names())
}

// Every combination of condition, sort, limit and offset yields clauses in the
// order WHERE, ORDER BY, LIMIT, OFFSET with absent parts omitted.
func TestCompiler_Select_AllShapes(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.PostgreSQL)

	for mask := 0; mask < 16; mask++ {
		hasWhere := mask&1 != 0
		hasSort := mask&2 != 0
		hasLimit := mask&4 != 0
		hasOffset := mask&8 != 0

		name := fmt.Sprintf("where=%v sort=%v limit=%v offset=%v", hasWhere, hasSort, hasLimit, hasOffset)
		t.Run(name, func(t *testing.T) {
			q := &domain.Query{Table: "T", Operation: domain.Select}
			want := `SELECT * FROM "T"`
			var wantArgs []interface{}
			n := 0

			if hasWhere {
				q.Filters = domain.FilterMap{"category": "VIP"}
				n++
				want += fmt.Sprintf(` WHERE "category" = $%d`, n)
				wantArgs = append(wantArgs, "VIP")
			}
			if hasSort {
				q.OrderBy = domain.NewOrderBy("date", false)
				want += ` ORDER BY "date" DESC`
			}
			if hasLimit {
				q.Pagination.Limit = intPtr(2)
				n++
				want += fmt.Sprintf(" LIMIT $%d", n)
				wantArgs = append(wantArgs, 2)
			}
			if hasOffset {
				q.Pagination.Offset = intPtr(1)
				n++
				want += fmt.Sprintf(" OFFSET $%d", n)
				wantArgs = append(wantArgs, 1)
			}

			compiled, err := comp.Compile(context.Background(), q)
			require.NoError(t, err)
			assert.Equal(t, want, compiled.SQL.Query)
			assert.Equal(t, wantArgs, compiled.SQL.Args)
		})
	}
}

func TestCompiler_Select_OffsetWithoutLimit(t *testing.T) {
	tests := []struct {
		dialect domain.SQLDialect
		want    string
	}{
		{domain.PostgreSQL, `SELECT * FROM "T" OFFSET $1`},
		{domain.SQLite, `SELECT * FROM "T" LIMIT -1 OFFSET ?`},
		{domain.MySQL, "SELECT * FROM `T` LIMIT 18446744073709551615 OFFSET ?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			compiled, err := compiler.NewSQLCompiler(tt.dialect).Compile(context.Background(), &domain.Query{
				Table:      "T",
				Operation:  domain.Select,
				Pagination: domain.Pagination{Offset: intPtr(3)},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, compiled.SQL.Query)
			assert.Equal(t, []interface{}{3}, compiled.SQL.Args)
		})
	}
}

func TestCompiler_Select_ConditionOverridesFilters(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.SQLite)

	compiled, err := comp.Compile(context.Background(), &domain.Query{
		Table:     "Event",
		Operation: domain.Select,
		Filters:   domain.FilterMap{"ignored": 1},
		Condition: condition.BuildComplex(
			domain.FilterMap{"kind": "concert"},
			domain.FilterMap{"city": "Oslo", "country": "SE"},
		),
	})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT * FROM "Event" WHERE ("kind" = ? AND ("city" = ? OR "country" = ?))`,
		compiled.SQL.Query)
	assert.Equal(t, []interface{}{"concert", "Oslo", "SE"}, compiled.SQL.Args)
	assert.NotContains(t, compiled.SQL.Query, "ignored")
}

func TestCompiler_Select_LimitZeroIsKept(t *testing.T) {
	compiled, err := compiler.NewSQLCompiler(domain.SQLite).Compile(context.Background(), &domain.Query{
		Table:      "T",
		Operation:  domain.Select,
		Pagination: domain.Pagination{Limit: intPtr(0)},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "T" LIMIT ?`, compiled.SQL.Query)
}

func TestCompiler_Select_BuildErrors(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.SQLite)
	ctx := context.Background()

	tests := []struct {
		name  string
		query *domain.Query
		want  error
	}{
		{
			name:  "bad table",
			query: &domain.Query{Table: "Event;--", Operation: domain.Select},
			want:  domain.ErrInvalidIdentifier,
		},
		{
			name:  "raw sql filter key",
			query: &domain.Query{Table: "Event", Operation: domain.Select, Filters: domain.FilterMap{"DATE(event_date)": "2024-01-01"}},
			want:  domain.ErrInvalidIdentifier,
		},
		{
			name:  "bad sort column",
			query: &domain.Query{Table: "Event", Operation: domain.Select, OrderBy: domain.NewOrderBy("a b", true)},
			want:  domain.ErrInvalidIdentifier,
		},
		{
			name:  "negative limit",
			query: &domain.Query{Table: "Event", Operation: domain.Select, Pagination: domain.Pagination{Limit: intPtr(-1)}},
			want:  domain.ErrInvalidPagination,
		},
		{
			name:  "unknown operation",
			query: &domain.Query{Table: "Event", Operation: "merge"},
			want:  domain.ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := comp.Compile(ctx, tt.query)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompiler_Insert(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.PostgreSQL)

	compiled, err := comp.Compile(context.Background(), &domain.Query{
		Table:     "Event",
		Operation: domain.Insert,
		Values:    domain.NewRow().Set("event_name", "Finals").Set("category", "VIP"),
	})
	require.NoError(t, err)

	assert.Equal(t, `INSERT INTO "Event" ("event_name", "category") VALUES ($1, $2)`, compiled.SQL.Query)
	assert.Equal(t, []interface{}{"Finals", "VIP"}, compiled.SQL.Args)

	_, err = comp.Compile(context.Background(), &domain.Query{Table: "Event", Operation: domain.Insert})
	assert.ErrorIs(t, err, domain.ErrEmptyValues)
}

func TestCompiler_Update(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.SQLite)

	compiled, err := comp.Compile(context.Background(), &domain.Query{
		Table:     "Event",
		Operation: domain.Update,
		Values:    domain.NewRow().Set("event_name", "Finals").Set("category", "GA"),
		Condition: condition.Single("event_id", 7),
	})
	require.NoError(t, err)

	assert.Equal(t, `UPDATE "Event" SET "event_name" = ?, "category" = ? WHERE "event_id" = ?`, compiled.SQL.Query)
	assert.Equal(t, []interface{}{"Finals", "GA", 7}, compiled.SQL.Args)
}

func TestCompiler_UpdateAllRows(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.PostgreSQL)

	compiled, err := comp.Compile(context.Background(), &domain.Query{
		Table:     "Event",
		Operation: domain.Update,
		Values:    domain.NewRow().Set("price", 99),
		AllRows:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "Event" SET "price" = $1`, compiled.SQL.Query)
	assert.Equal(t, []interface{}{99}, compiled.SQL.Args)

	// A condition still applies when given.
	compiled, err = comp.Compile(context.Background(), &domain.Query{
		Table:     "Event",
		Operation: domain.Update,
		Values:    domain.NewRow().Set("price", 99),
		Condition: condition.Single("event_id", 1),
		AllRows:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "Event" SET "price" = $1 WHERE "event_id" = $2`, compiled.SQL.Query)

	// DELETE never runs unconditionally.
	_, err = comp.Compile(context.Background(), &domain.Query{
		Table: "Event", Operation: domain.Delete, AllRows: true,
	})
	assert.ErrorIs(t, err, domain.ErrMissingCondition)
}

func TestCompiler_Update_Errors(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.SQLite)
	ctx := context.Background()

	_, err := comp.Compile(ctx, &domain.Query{
		Table: "Event", Operation: domain.Update, Values: domain.NewRow(), Condition: condition.Single("id", 1),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyValues)

	_, err = comp.Compile(ctx, &domain.Query{
		Table: "Event", Operation: domain.Update, Values: domain.NewRow().Set("a", 1),
	})
	assert.ErrorIs(t, err, domain.ErrMissingCondition)

	_, err = comp.Compile(ctx, &domain.Query{
		Table: "Event", Operation: domain.Update, Values: domain.NewRow().Set("a=1, b", 1), Condition: condition.Single("id", 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}

func TestCompiler_Delete(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.MySQL)

	compiled, err := comp.Compile(context.Background(), &domain.Query{
		Table:     "Event",
		Operation: domain.Delete,
		Condition: condition.Single("event_id", 3),
	})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `Event` WHERE `event_id` = ?", compiled.SQL.Query)

	_, err = comp.Compile(context.Background(), &domain.Query{Table: "Event", Operation: domain.Delete})
	assert.ErrorIs(t, err, domain.ErrMissingCondition)
}

func TestCompiler_Aggregate(t *testing.T) {
	comp := compiler.NewSQLCompiler(domain.PostgreSQL)

	compiled, err := comp.Compile(context.Background(), &domain.Query{
		Table:     "Ticket",
		Operation: domain.Aggregate,
		Filters:   domain.FilterMap{"event_id": 1},
		Aggregate: &domain.Aggregation{
			Function: domain.Sum,
			Field:    domain.Field{Table: "Ticket", Name: "price", Type: domain.TypeNumeric},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `SELECT SUM("price") FROM "Ticket" WHERE "event_id" = $1`, compiled.SQL.Query)
	assert.Equal(t, []interface{}{1}, compiled.SQL.Args)
}

func TestCompiler_QualifiedTable(t *testing.T) {
	compiled, err := compiler.NewSQLCompiler(domain.PostgreSQL).Compile(context.Background(), &domain.Query{
		Table:     "public.events",
		Operation: domain.Select,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(compiled.SQL.Query, `FROM "public"."events"`))
}
