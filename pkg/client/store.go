package client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/adapters/telemetry"
	"github.com/satishbabariya/dynquery/internal/core/query/compiler"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
	"github.com/satishbabariya/dynquery/internal/core/query/executor"
	"github.com/satishbabariya/dynquery/internal/core/query/fields"
	"github.com/satishbabariya/dynquery/internal/debug"
)

// Operation names used in errors, logs and metrics.
const (
	OpSelect      = string(domain.Select)
	OpInsert      = string(domain.Insert)
	OpUpdate      = string(domain.Update)
	OpDelete      = string(domain.Delete)
	OpAggregate   = string(domain.Aggregate)
	OpTableExists = "table_exists"
	OpServerInfo  = "server_info"
)

// FindRequest describes a read. Every part is optional; the zero value reads
// every column of every row.
type FindRequest struct {
	// Columns to return, in order. Empty or ["*"] means all columns.
	Columns []string

	// Filters is an equality conjunction, ignored when Where is set.
	Filters FilterMap

	// Where is an explicit condition tree.
	Where *Condition

	// Sort orders the result on one column.
	Sort *OrderBy

	Limit  *int
	Offset *int
}

// Store runs operations and reports failures as *QueryError.
//
// Each call reserves one connection from the adapter's pool and returns it
// before the call ends, so a Store is safe for concurrent use.
type Store struct {
	adapter  database.Adapter
	compiler *compiler.SQLCompiler
	executor *executor.QueryExecutor
	opts     options
}

// NewStore creates a store on a connected adapter.
func NewStore(adapter database.Adapter, opts ...Option) *Store {
	return &Store{
		adapter:  adapter,
		compiler: compiler.NewSQLCompiler(adapter.GetDialect()),
		executor: executor.NewQueryExecutor(),
		opts:     applyOptions(opts),
	}
}

// Dialect returns the dialect statements are compiled for.
func (s *Store) Dialect() domain.SQLDialect {
	return s.compiler.Dialect()
}

// Find returns the rows matching req. The slice is never nil on success.
func (s *Store) Find(ctx context.Context, table string, req FindRequest) ([]*Row, error) {
	var rows []*Row
	err := s.do(ctx, OpSelect, table, func(conn *sqlx.Conn, log *slog.Logger) (int64, error) {
		fieldList, err := s.resolver(conn).ResolveFields(ctx, table, req.Columns)
		if err != nil {
			return 0, err
		}

		compiled, err := s.compile(ctx, log, &domain.Query{
			Table:      table,
			Operation:  domain.Select,
			Fields:     fieldList,
			Condition:  req.Where,
			Filters:    req.Filters,
			OrderBy:    req.Sort,
			Pagination: domain.Pagination{Limit: req.Limit, Offset: req.Offset},
		})
		if err != nil {
			return 0, err
		}

		rows, err = s.executor.FetchRows(ctx, conn, compiled)
		if err != nil {
			return 0, err
		}
		return int64(len(rows)), nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert writes values as one row. The column list is the row's keys.
func (s *Store) Insert(ctx context.Context, table string, values *Row) (int64, error) {
	return s.write(ctx, OpInsert, &domain.Query{
		Table:     table,
		Operation: domain.Insert,
		Values:    values,
	})
}

// Update sets values on the rows matching where and returns how many
// changed. Empty values are a no-op: no statement is issued.
func (s *Store) Update(ctx context.Context, table string, values *Row, where *Condition) (int64, error) {
	if values.Len() == 0 {
		s.logger().Debug("skipping update without values", "table", table)
		return 0, nil
	}
	return s.write(ctx, OpUpdate, &domain.Query{
		Table:     table,
		Operation: domain.Update,
		Values:    values,
		Condition: where,
	})
}

// UpdateAll sets values on every row of table. Empty values are a no-op.
func (s *Store) UpdateAll(ctx context.Context, table string, values *Row) (int64, error) {
	if values.Len() == 0 {
		s.logger().Debug("skipping update without values", "table", table)
		return 0, nil
	}
	return s.write(ctx, OpUpdate, &domain.Query{
		Table:     table,
		Operation: domain.Update,
		Values:    values,
		AllRows:   true,
	})
}

// Delete removes the rows matching where. A nil condition is rejected
// rather than deleting the whole table.
func (s *Store) Delete(ctx context.Context, table string, where *Condition) (int64, error) {
	return s.write(ctx, OpDelete, &domain.Query{
		Table:     table,
		Operation: domain.Delete,
		Condition: where,
	})
}

// Aggregate computes fn over column for the rows matching filters. An empty
// column or "*" aggregates over rows, which only COUNT accepts. The result
// is nil when the engine returns no value.
func (s *Store) Aggregate(ctx context.Context, table, column string, fn AggregateFunc, filters FilterMap) (interface{}, error) {
	var value interface{}
	err := s.do(ctx, OpAggregate, table, func(conn *sqlx.Conn, log *slog.Logger) (int64, error) {
		function, err := domain.ParseAggregateFunc(string(fn))
		if err != nil {
			return 0, err
		}
		if column == "" {
			column = domain.Wildcard
		}

		field, err := s.resolver(conn).ResolveField(ctx, table, column)
		if err != nil {
			return 0, err
		}

		compiled, err := s.compile(ctx, log, &domain.Query{
			Table:     table,
			Operation: domain.Aggregate,
			Filters:   filters,
			Aggregate: &domain.Aggregation{Function: function, Field: field},
		})
		if err != nil {
			return 0, err
		}

		value, err = s.executor.FetchScalar(ctx, conn, compiled)
		return 0, err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// TableExists asks the resolver, or the engine catalog when the resolver
// cannot answer, whether table exists.
func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := s.do(ctx, OpTableExists, table, func(conn *sqlx.Conn, log *slog.Logger) (int64, error) {
		checker, ok := s.resolver(conn).(tableChecker)
		if !ok {
			checker = fields.NewCatalogResolver(conn, s.Dialect(), log)
		}
		var err error
		exists, err = checker.TableExists(ctx, table)
		return 0, err
	})
	return exists, err
}

// ServerInfo describes the connected engine.
type ServerInfo struct {
	Dialect domain.SQLDialect
	Version string
	// CatalogSupported is false when the engine predates the catalog
	// queries the default resolver relies on.
	CatalogSupported bool
}

// ServerInfo reports the engine version and whether its catalog can back
// field resolution.
func (s *Store) ServerInfo(ctx context.Context) (ServerInfo, error) {
	info := ServerInfo{Dialect: s.Dialect()}
	err := s.do(ctx, OpServerInfo, "", func(conn *sqlx.Conn, log *slog.Logger) (int64, error) {
		v, err := database.ServerVersion(ctx, conn, info.Dialect)
		if err != nil {
			return 0, err
		}
		info.Version = v.String()
		info.CatalogSupported = database.CatalogSupported(info.Dialect, v)
		log.Debug("server version", "version", info.Version, "catalog", info.CatalogSupported)
		return 0, nil
	})
	return info, err
}

type tableChecker interface {
	TableExists(ctx context.Context, table string) (bool, error)
}

func (s *Store) write(ctx context.Context, op string, query *domain.Query) (int64, error) {
	var affected int64
	err := s.do(ctx, op, query.Table, func(conn *sqlx.Conn, log *slog.Logger) (int64, error) {
		compiled, err := s.compile(ctx, log, query)
		if err != nil {
			return 0, err
		}
		affected, err = s.executor.Exec(ctx, conn, compiled)
		return affected, err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// do reserves a connection, runs fn on it and classifies any failure. The
// connection is released on every path.
func (s *Store) do(ctx context.Context, op, table string, fn func(conn *sqlx.Conn, log *slog.Logger) (int64, error)) error {
	start := time.Now()
	id := uuid.NewString()
	log := s.logger().With("op", op, "table", table, "op_id", id)

	n, err := s.withConn(ctx, log, fn)

	info := telemetry.OperationInfo{
		Operation:    op,
		Table:        table,
		Duration:     time.Since(start),
		RowsAffected: n,
	}
	if err != nil {
		var qe *QueryError
		if !errors.As(err, &qe) {
			qe = s.classify(err)
		}
		qe.Op, qe.Table, qe.ID = op, table, id
		err = qe
		info.Err, info.Kind = err, string(qe.Kind)
	}
	s.opts.recorder.RecordOperation(ctx, info)
	return err
}

func (s *Store) withConn(ctx context.Context, log *slog.Logger, fn func(conn *sqlx.Conn, log *slog.Logger) (int64, error)) (int64, error) {
	conn, err := s.adapter.Conn(ctx)
	if err != nil {
		return 0, &QueryError{Kind: KindConnection, Cause: err}
	}
	defer conn.Close()

	return fn(conn, log)
}

func (s *Store) classify(err error) *QueryError {
	if isBuildError(err) {
		return &QueryError{Kind: KindBuild, Cause: err}
	}
	return &QueryError{Kind: KindExecution, Cause: s.adapter.TranslateError(err)}
}

func (s *Store) compile(ctx context.Context, log *slog.Logger, query *domain.Query) (*domain.CompiledQuery, error) {
	compiled, err := s.compiler.Compile(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Debug("compiled query", "sql", compiled.SQL.Query, "args", len(compiled.SQL.Args))
	return compiled, nil
}

// resolver returns the configured resolver, or a catalog resolver bound to
// the call's connection.
func (s *Store) resolver(conn *sqlx.Conn) FieldResolver {
	if s.opts.resolver != nil {
		return s.opts.resolver
	}
	return fields.NewCatalogResolver(conn, s.Dialect(), s.logger())
}

func (s *Store) logger() *slog.Logger {
	if s.opts.logger != nil {
		return s.opts.logger
	}
	return debug.Logger()
}
