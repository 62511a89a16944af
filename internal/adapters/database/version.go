package database

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-version"
	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// Oldest engine versions whose catalog the field resolver can read:
// pragma_table_info as a table-valued function arrived in SQLite 3.16.
var minimumCatalogVersion = map[domain.SQLDialect]*version.Version{
	domain.SQLite:     version.Must(version.NewVersion("3.16.0")),
	domain.PostgreSQL: version.Must(version.NewVersion("9.4")),
	domain.MySQL:      version.Must(version.NewVersion("5.7")),
}

var leadingVersion = regexp.MustCompile(`^\d+(\.\d+)*`)

// ServerVersion asks the engine for its version. Vendor suffixes such as
// "-MariaDB" or " (Debian ...)" are dropped.
func ServerVersion(ctx context.Context, q sqlx.QueryerContext, dialect domain.SQLDialect) (*version.Version, error) {
	var query string
	switch dialect {
	case domain.PostgreSQL:
		query = "SHOW server_version"
	case domain.MySQL:
		query = "SELECT VERSION()"
	default:
		query = "SELECT sqlite_version()"
	}

	var raw string
	if err := q.QueryRowxContext(ctx, query).Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to query server version: %w", err)
	}
	return ParseServerVersion(raw)
}

// ParseServerVersion parses the numeric prefix of a reported version.
func ParseServerVersion(raw string) (*version.Version, error) {
	core := leadingVersion.FindString(raw)
	if core == "" {
		return nil, fmt.Errorf("unrecognised server version %q", raw)
	}
	return version.NewVersion(core)
}

// CatalogSupported reports whether v can serve catalog lookups for dialect.
func CatalogSupported(dialect domain.SQLDialect, v *version.Version) bool {
	minimum, ok := minimumCatalogVersion[dialect]
	if !ok || v == nil {
		return false
	}
	return v.GreaterThanOrEqual(minimum)
}
