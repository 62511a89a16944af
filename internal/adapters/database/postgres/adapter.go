// Package postgres implements PostgreSQL database adapter.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// SQLSTATE codes the adapter recognises.
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeUndefinedTable      = "42P01"
)

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	db     *sqlx.DB
	config database.Config
}

// NewPostgresAdapter creates a new PostgreSQL adapter.
func NewPostgresAdapter(config database.Config) (*PostgresAdapter, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("postgres: empty database url")
	}
	return &PostgresAdapter{
		config: config,
	}, nil
}

// DSN converts postgres:// URLs into the key=value form. Anything else is
// assumed to already be a connection string.
func DSN(url string) (string, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		dsn, err := pq.ParseURL(url)
		if err != nil {
			return "", fmt.Errorf("invalid postgres url: %w", err)
		}
		return dsn, nil
	}
	return url, nil
}

// Connect establishes a connection to the PostgreSQL database.
func (a *PostgresAdapter) Connect(ctx context.Context) error {
	dsn, err := DSN(a.config.URL)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, "postgres", dsn, a.config, nil)
	if err != nil {
		return err
	}

	a.db = db
	return nil
}

// Disconnect closes the database connection.
func (a *PostgresAdapter) Disconnect(ctx context.Context) error {
	if a.db != nil {
		err := a.db.Close()
		a.db = nil
		return err
	}
	return nil
}

// Conn reserves a connection from the pool.
func (a *PostgresAdapter) Conn(ctx context.Context) (*sqlx.Conn, error) {
	if a.db == nil {
		return nil, database.ErrNotConnected
	}
	return a.db.Connx(ctx)
}

// DB returns the pool.
func (a *PostgresAdapter) DB() *sqlx.DB {
	return a.db
}

// Ping checks if the database connection is alive.
func (a *PostgresAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return database.ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// GetDialect returns the SQL dialect.
func (a *PostgresAdapter) GetDialect() domain.SQLDialect {
	return domain.PostgreSQL
}

// TranslateError maps SQLSTATE codes.
func (a *PostgresAdapter) TranslateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case codeUniqueViolation:
		return database.Translate(database.ErrUniqueConstraint, err)
	case codeForeignKeyViolation:
		return database.Translate(database.ErrForeignKeyConstraint, err)
	case codeNotNullViolation:
		return database.Translate(database.ErrNullConstraint, err)
	case codeUndefinedTable:
		return database.Translate(database.ErrNoSuchTable, err)
	}
	return err
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)
