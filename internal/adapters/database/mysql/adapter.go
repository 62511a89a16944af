// Package mysql implements MySQL database adapter.
package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// Server error numbers the adapter recognises.
const (
	errDupEntry        = 1062
	errBadNull         = 1048
	errNoReferencedRow = 1452
	errRowIsReferenced = 1451
	errNoSuchTable     = 1146
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	db     *sqlx.DB
	config database.Config
}

// NewMySQLAdapter creates a new MySQL adapter.
func NewMySQLAdapter(config database.Config) (*MySQLAdapter, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("mysql: empty database url")
	}
	return &MySQLAdapter{
		config: config,
	}, nil
}

// DSN parses a go-sql-driver DSN, optionally prefixed with mysql://, and
// turns on parseTime so DATETIME columns scan as time.Time.
func DSN(url string) (string, error) {
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(url, "mysql://"))
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Connect establishes a connection to the MySQL database.
func (a *MySQLAdapter) Connect(ctx context.Context) error {
	dsn, err := DSN(a.config.URL)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, "mysql", dsn, a.config, nil)
	if err != nil {
		return err
	}

	a.db = db
	return nil
}

// Disconnect closes the database connection.
func (a *MySQLAdapter) Disconnect(ctx context.Context) error {
	if a.db != nil {
		err := a.db.Close()
		a.db = nil
		return err
	}
	return nil
}

// Conn reserves a connection from the pool.
func (a *MySQLAdapter) Conn(ctx context.Context) (*sqlx.Conn, error) {
	if a.db == nil {
		return nil, database.ErrNotConnected
	}
	return a.db.Connx(ctx)
}

// DB returns the pool.
func (a *MySQLAdapter) DB() *sqlx.DB {
	return a.db
}

// Ping checks if the database connection is alive.
func (a *MySQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return database.ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// GetDialect returns the SQL dialect.
func (a *MySQLAdapter) GetDialect() domain.SQLDialect {
	return domain.MySQL
}

// TranslateError maps server error numbers.
func (a *MySQLAdapter) TranslateError(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}

	switch myErr.Number {
	case errDupEntry:
		return database.Translate(database.ErrUniqueConstraint, err)
	case errNoReferencedRow, errRowIsReferenced:
		return database.Translate(database.ErrForeignKeyConstraint, err)
	case errBadNull:
		return database.Translate(database.ErrNullConstraint, err)
	case errNoSuchTable:
		return database.Translate(database.ErrNoSuchTable, err)
	}
	return err
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)
