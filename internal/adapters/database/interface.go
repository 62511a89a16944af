// Package database defines database adapter interfaces.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect opens the pool and verifies it.
	Connect(ctx context.Context) error

	// Disconnect closes the pool.
	Disconnect(ctx context.Context) error

	// Conn reserves a single connection. The caller must Close it.
	Conn(ctx context.Context) (*sqlx.Conn, error)

	// DB returns the underlying pool, or nil before Connect.
	DB() *sqlx.DB

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetDialect returns the SQL dialect.
	GetDialect() domain.SQLDialect

	// TranslateError maps driver errors onto the sentinels below. Errors the
	// adapter does not recognise are returned unchanged.
	TranslateError(err error) error
}

// Driver-independent failure classes.
var (
	ErrNotConnected         = errors.New("database not connected")
	ErrUniqueConstraint     = errors.New("unique constraint violation")
	ErrForeignKeyConstraint = errors.New("foreign key constraint violation")
	ErrNullConstraint       = errors.New("null constraint violation")
	ErrNoSuchTable          = errors.New("no such table")
)

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// Open opens a pool for driverName, applies the pool settings from cfg and
// pings it within the connect timeout. init, if set, runs once after the ping.
func Open(ctx context.Context, driverName, dsn string, cfg Config, init func(ctx context.Context, db *sqlx.DB) error) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(max(cfg.MaxConnections/2, 1))
	}
	if cfg.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Second)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if init != nil {
		if err := init(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Translate wraps err with class so both remain visible to errors.Is.
func Translate(class, err error) error {
	return fmt.Errorf("%w: %w", class, err)
}
