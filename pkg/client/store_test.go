package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/dynquery/internal/adapters/telemetry"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

type recorderSpy struct {
	mu    sync.Mutex
	infos []telemetry.OperationInfo
}

func (r *recorderSpy) RecordOperation(ctx context.Context, info telemetry.OperationInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, info)
}

func (r *recorderSpy) Flush(ctx context.Context) error { return nil }

func (r *recorderSpy) last() telemetry.OperationInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infos[len(r.infos)-1]
}

func newTestStore(t *testing.T, opts ...Option) (*Store, database.Adapter) {
	t.Helper()
	adapter, err := sqlite.NewSQLiteAdapter(database.Config{URL: ":memory:", ConnectTimeout: 5})
	require.NoError(t, err)
	require.NoError(t, adapter.Connect(context.Background()))
	t.Cleanup(func() { adapter.Disconnect(context.Background()) })

	adapter.DB().MustExec(`CREATE TABLE Venue (venue_id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE, capacity INTEGER)`)
	return NewStore(adapter, opts...), adapter
}

func TestStore_CRUD(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	n, err := store.Insert(ctx, "Venue", NewRow().Set("name", "Arena").Set("capacity", 5000))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = store.Insert(ctx, "Venue", NewRow().Set("name", "Hall").Set("capacity", 300))
	require.NoError(t, err)

	rows, err := store.Find(ctx, "Venue", FindRequest{
		Columns: []string{"name", "capacity"},
		Sort:    SortDesc("capacity"),
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "capacity"}, rows[0].Keys())
	assert.Equal(t, "Arena", rows[0].Value("name"))

	n, err = store.Update(ctx, "Venue", NewRow().Set("capacity", 350), Eq("name", "Hall"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	total, err := store.Aggregate(ctx, "Venue", "capacity", Sum, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5350), total)

	n, err = store.Delete(ctx, "Venue", Or(Eq("name", "Hall"), Eq("name", "Arena")))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err = store.Find(ctx, "Venue", FindRequest{})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestStore_WhereOverridesFilters(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, "Venue", NewRow().Set("name", "Arena"))
	require.NoError(t, err)

	rows, err := store.Find(ctx, "Venue", FindRequest{
		Filters: FilterMap{"name": "Nope"},
		Where:   Eq("name", "Arena"),
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStore_UpdateWithoutValuesIssuesNothing(t *testing.T) {
	spy := &recorderSpy{}
	store, _ := newTestStore(t, WithRecorder(spy))

	n, err := store.Update(context.Background(), "DoesNotExist", NewRow(), Eq("a", 1))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, spy.infos)
}

func TestStore_UpdateAll(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Arena", "Hall", "Club"} {
		_, err := store.Insert(ctx, "Venue", NewRow().Set("name", name).Set("capacity", 10))
		require.NoError(t, err)
	}

	n, err := store.UpdateAll(ctx, "Venue", NewRow().Set("capacity", 100))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	total, err := store.Aggregate(ctx, "Venue", "capacity", Sum, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)

	n, err = store.UpdateAll(ctx, "Venue", NewRow())
	require.NoError(t, err)
	assert.Zero(t, n)

	// Update keeps refusing a nil condition.
	_, err = store.Update(ctx, "Venue", NewRow().Set("capacity", 1), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStore_TypedErrors(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, "Venue", NewRow().Set("name", "Arena"))
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
		kind ErrorKind
		is   []error
	}{
		{
			name: "missing table",
			run: func() error {
				_, err := store.Find(ctx, "Nope", FindRequest{})
				return err
			},
			kind: KindExecution,
			is:   []error{ErrExecution, ErrNoSuchTable},
		},
		{
			name: "unique constraint",
			run: func() error {
				_, err := store.Insert(ctx, "Venue", NewRow().Set("name", "Arena"))
				return err
			},
			kind: KindExecution,
			is:   []error{ErrExecution, ErrUniqueConstraint},
		},
		{
			name: "not null",
			run: func() error {
				_, err := store.Insert(ctx, "Venue", NewRow().Set("capacity", 1))
				return err
			},
			kind: KindExecution,
			is:   []error{ErrNullConstraint},
		},
		{
			name: "bad identifier",
			run: func() error {
				_, err := store.Find(ctx, "Venue", FindRequest{Columns: []string{"name; DROP TABLE Venue"}})
				return err
			},
			kind: KindBuild,
			is:   []error{ErrInvalidInput, ErrInvalidIdentifier},
		},
		{
			name: "unknown aggregate",
			run: func() error {
				_, err := store.Aggregate(ctx, "Venue", "capacity", AggregateFunc("MEDIAN"), nil)
				return err
			},
			kind: KindBuild,
			is:   []error{ErrInvalidInput, ErrUnknownAggregate},
		},
		{
			name: "sum over rows",
			run: func() error {
				_, err := store.Aggregate(ctx, "Venue", "*", Sum, nil)
				return err
			},
			kind: KindBuild,
			is:   []error{ErrInvalidInput},
		},
		{
			name: "delete without condition",
			run: func() error {
				_, err := store.Delete(ctx, "Venue", nil)
				return err
			},
			kind: KindBuild,
			is:   []error{ErrInvalidInput},
		},
		{
			name: "insert without values",
			run: func() error {
				_, err := store.Insert(ctx, "Venue", NewRow())
				return err
			},
			kind: KindBuild,
			is:   []error{ErrInvalidInput},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)

			var qe *QueryError
			require.True(t, errors.As(err, &qe))
			assert.Equal(t, tt.kind, qe.Kind)
			assert.NotEmpty(t, qe.ID)
			assert.Equal(t, tt.kind, KindOf(err))
			for _, target := range tt.is {
				assert.ErrorIs(t, err, target)
			}
			assert.False(t, errors.Is(err, ErrConnection))
		})
	}

	// The rejected delete left the table alone.
	rows, err := store.Find(ctx, "Venue", FindRequest{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStore_ConnectionError(t *testing.T) {
	store, adapter := newTestStore(t)
	require.NoError(t, adapter.Disconnect(context.Background()))

	_, err := store.Find(context.Background(), "Venue", FindRequest{})
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, database.ErrNotConnected)
	assert.Equal(t, KindConnection, KindOf(err))
}

func TestStore_RecordsTelemetry(t *testing.T) {
	spy := &recorderSpy{}
	store, _ := newTestStore(t, WithRecorder(spy))
	ctx := context.Background()

	_, err := store.Insert(ctx, "Venue", NewRow().Set("name", "Arena"))
	require.NoError(t, err)
	info := spy.last()
	assert.Equal(t, OpInsert, info.Operation)
	assert.Equal(t, "Venue", info.Table)
	assert.True(t, info.Success())
	assert.Equal(t, int64(1), info.RowsAffected)

	_, _ = store.Find(ctx, "Nope", FindRequest{})
	info = spy.last()
	assert.Equal(t, OpSelect, info.Operation)
	assert.False(t, info.Success())
	assert.Equal(t, string(KindExecution), info.Kind)
}

func TestStore_NameResolverUsesCastFallback(t *testing.T) {
	store, _ := newTestStore(t, WithResolver(NewNameResolver()))
	ctx := context.Background()

	for _, capacity := range []int{100, 250} {
		_, err := store.Insert(ctx, "Venue", NewRow().Set("name", capacity).Set("capacity", capacity))
		require.NoError(t, err)
	}

	total, err := store.Aggregate(ctx, "Venue", "capacity", Sum, nil)
	require.NoError(t, err)
	assert.Equal(t, 350.0, total)
}

func TestStore_StaticResolver(t *testing.T) {
	store, _ := newTestStore(t, WithResolver(NewStaticResolver(Schema{
		"Venue": {"capacity": TypeNumeric, "name": TypeText},
	})))
	ctx := context.Background()

	_, err := store.Insert(ctx, "Venue", NewRow().Set("name", "Arena").Set("capacity", 40))
	require.NoError(t, err)

	total, err := store.Aggregate(ctx, "Venue", "capacity", Sum, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(40), total)

	exists, err := store.TableExists(ctx, "venue")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.TableExists(ctx, "Ticket")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_TableExistsFromCatalog(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	exists, err := store.TableExists(ctx, "Venue")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.TableExists(ctx, "Ticket")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.TableExists(ctx, "Venue; --")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// NameResolver cannot answer, so the catalog is asked instead.
	nameStore := NewStore(store.adapter, WithResolver(NewNameResolver()))
	exists, err = nameStore.TableExists(ctx, "Venue")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_ConcurrentUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Insert(ctx, "Venue", NewRow().Set("name", i))
			assert.NoError(t, err)
			_, err = store.Aggregate(ctx, "Venue", "", Count, nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, err := store.Aggregate(ctx, "Venue", "*", Count, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)
}

func TestStore_ServerInfo(t *testing.T) {
	spy := &recorderSpy{}
	store, _ := newTestStore(t, WithRecorder(spy))

	info, err := store.ServerInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SQLite, info.Dialect)
	assert.NotEmpty(t, info.Version)
	assert.True(t, info.CatalogSupported)
	assert.Equal(t, OpServerInfo, spy.last().Operation)
}
