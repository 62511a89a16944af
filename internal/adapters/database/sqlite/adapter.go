// Package sqlite implements SQLite database adapter.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	db     *sqlx.DB
	config database.Config
}

// NewSQLiteAdapter creates a new SQLite adapter.
func NewSQLiteAdapter(config database.Config) (*SQLiteAdapter, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("sqlite: empty database url")
	}
	return &SQLiteAdapter{
		config: config,
	}, nil
}

// DSN strips the scheme prefixes accepted in configuration. file: URIs are
// passed through since the driver understands them.
func DSN(url string) string {
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite:"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

// FilePath returns the file behind url, or false for in-memory databases.
func FilePath(url string) (string, bool) {
	path := strings.TrimPrefix(DSN(url), "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		if strings.Contains(path[i:], "mode=memory") {
			return "", false
		}
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return "", false
	}
	return path, true
}

// poolConfig allows one writer at a time, which also keeps an in-memory
// database on a single connection. That connection must never be reaped
// for idleness since closing it discards the database.
func poolConfig(cfg database.Config) database.Config {
	cfg.MaxConnections = 1
	if _, ok := FilePath(cfg.URL); !ok {
		cfg.MaxIdleTime = 0
	}
	return cfg
}

// Connect establishes a connection to the SQLite database.
func (a *SQLiteAdapter) Connect(ctx context.Context) error {
	cfg := poolConfig(a.config)
	db, err := database.Open(ctx, "sqlite3", DSN(cfg.URL), cfg, func(ctx context.Context, db *sqlx.DB) error {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.db = db
	return nil
}

// Disconnect closes the database connection.
func (a *SQLiteAdapter) Disconnect(ctx context.Context) error {
	if a.db != nil {
		err := a.db.Close()
		a.db = nil
		return err
	}
	return nil
}

// Conn reserves a connection from the pool.
func (a *SQLiteAdapter) Conn(ctx context.Context) (*sqlx.Conn, error) {
	if a.db == nil {
		return nil, database.ErrNotConnected
	}
	return a.db.Connx(ctx)
}

// DB returns the pool.
func (a *SQLiteAdapter) DB() *sqlx.DB {
	return a.db
}

// Ping checks if the database connection is alive.
func (a *SQLiteAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return database.ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// GetDialect returns the SQL dialect.
func (a *SQLiteAdapter) GetDialect() domain.SQLDialect {
	return domain.SQLite
}

// TranslateError maps sqlite3 result codes.
func (a *SQLiteAdapter) TranslateError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return database.Translate(database.ErrUniqueConstraint, err)
	case sqlite3.ErrConstraintForeignKey:
		return database.Translate(database.ErrForeignKeyConstraint, err)
	case sqlite3.ErrConstraintNotNull:
		return database.Translate(database.ErrNullConstraint, err)
	}
	if sqliteErr.Code == sqlite3.ErrError && strings.Contains(sqliteErr.Error(), "no such table") {
		return database.Translate(database.ErrNoSuchTable, err)
	}
	return err
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)
