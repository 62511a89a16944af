package executor_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dynquery/internal/core/query/compiler"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
	"github.com/satishbabariya/dynquery/internal/core/query/executor"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	db.MustExec(`CREATE TABLE Event (event_id INTEGER PRIMARY KEY, event_name TEXT, category TEXT)`)
	db.MustExec(`INSERT INTO Event (event_name, category) VALUES ('Finals', 'VIP'), ('Opening', 'GA')`)
	return db
}

func compile(t *testing.T, q *domain.Query) *domain.CompiledQuery {
	t.Helper()
	compiled, err := compiler.NewSQLCompiler(domain.SQLite).Compile(context.Background(), q)
	require.NoError(t, err)
	return compiled
}

func TestToRow_ExplicitFields(t *testing.T) {
	fields := domain.FieldList{Fields: []domain.Field{{Name: "b"}, {Name: "missing"}, {Name: "A"}}}
	row := executor.ToRow([]string{"a", "b", "c"}, []interface{}{int64(1), []byte("x"), 3.5}, fields)

	assert.Equal(t, []string{"b", "missing", "A"}, row.Keys())
	assert.Equal(t, "x", row.Value("b"))
	assert.Nil(t, row.Value("missing"))
	assert.Equal(t, int64(1), row.Value("A"))
	assert.False(t, row.Has("c"))
}

func TestToRow_QualifiedField(t *testing.T) {
	fields := domain.FieldList{Fields: []domain.Field{{Table: "Event", Name: "Event.event_name"}, {Name: "Event.missing"}}}
	row := executor.ToRow([]string{"event_name"}, []interface{}{[]byte("Finals")}, fields)

	assert.Equal(t, []string{"Event.event_name", "Event.missing"}, row.Keys())
	assert.Equal(t, "Finals", row.Value("Event.event_name"))
	assert.Nil(t, row.Value("Event.missing"))
}

func TestToRow_Wildcard(t *testing.T) {
	row := executor.ToRow([]string{"a", "b"}, []interface{}{int32(1), nil}, domain.WildcardFields("T"))

	assert.Equal(t, []string{"a", "b"}, row.Keys())
	assert.Equal(t, int64(1), row.Value("a"))
	assert.Nil(t, row.Value("b"))
}

func TestFetchRows(t *testing.T) {
	db := setupDB(t)
	exec := executor.NewQueryExecutor()
	ctx := context.Background()

	rows, err := exec.FetchRows(ctx, db, compile(t, &domain.Query{
		Table:     "Event",
		Operation: domain.Select,
		Fields:    domain.FieldList{Fields: []domain.Field{{Name: "event_name"}}},
		Filters:   domain.FilterMap{"category": "VIP"},
	}))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"event_name"}, rows[0].Keys())
	assert.Equal(t, "Finals", rows[0].Value("event_name"))

	all, err := exec.FetchRows(ctx, db, compile(t, &domain.Query{Table: "Event", Operation: domain.Select}))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []string{"event_id", "event_name", "category"}, all[0].Keys())
}

func TestFetchRows_EmptyIsNotNil(t *testing.T) {
	db := setupDB(t)

	rows, err := executor.NewQueryExecutor().FetchRows(context.Background(), db, compile(t, &domain.Query{
		Table:     "Event",
		Operation: domain.Select,
		Filters:   domain.FilterMap{"category": "none"},
	}))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFetchRows_MissingTable(t *testing.T) {
	db := setupDB(t)

	_, err := executor.NewQueryExecutor().FetchRows(context.Background(), db, compile(t, &domain.Query{
		Table:     "Nope",
		Operation: domain.Select,
	}))
	assert.Error(t, err)
}

func TestFetchScalarAndExec(t *testing.T) {
	db := setupDB(t)
	exec := executor.NewQueryExecutor()
	ctx := context.Background()

	n, err := exec.Exec(ctx, db, compile(t, &domain.Query{
		Table:     "Event",
		Operation: domain.Update,
		Values:    domain.NewRow().Set("category", "VIP"),
		Filters:   domain.FilterMap{"event_name": "Opening"},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := exec.FetchScalar(ctx, db, compile(t, &domain.Query{
		Table:     "Event",
		Operation: domain.Aggregate,
		Filters:   domain.FilterMap{"category": "VIP"},
		Aggregate: &domain.Aggregation{Function: domain.Count, Field: domain.Field{Name: "*"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
