// Package factory selects a database adapter by provider name.
package factory

import (
	"fmt"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/adapters/database/mysql"
	"github.com/satishbabariya/dynquery/internal/adapters/database/postgres"
	"github.com/satishbabariya/dynquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// NewAdapter creates the adapter for cfg.Provider. The adapter is not
// connected yet.
func NewAdapter(cfg database.Config) (database.Adapter, error) {
	dialect, err := domain.ParseDialect(cfg.Provider)
	if err != nil {
		return nil, err
	}

	var adapter database.Adapter
	switch dialect {
	case domain.PostgreSQL:
		adapter, err = postgres.NewPostgresAdapter(cfg)
	case domain.MySQL:
		adapter, err = mysql.NewMySQLAdapter(cfg)
	case domain.SQLite:
		adapter, err = sqlite.NewSQLiteAdapter(cfg)
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter: %w", err)
	}
	return adapter, nil
}
