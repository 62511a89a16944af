package fields

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
	"github.com/satishbabariya/dynquery/internal/debug"
)

// CatalogResolver reads declared column types from the engine catalog.
//
// Name resolution never touches the database; only ResolveField and
// TableExists do. Catalog failures degrade to an unknown type so that the
// statement itself reports the real problem.
type CatalogResolver struct {
	db      sqlx.QueryerContext
	dialect domain.SQLDialect
	logger  *slog.Logger
}

// NewCatalogResolver creates a catalog-backed resolver. A nil logger uses the
// debug logger.
func NewCatalogResolver(db sqlx.QueryerContext, dialect domain.SQLDialect, logger *slog.Logger) *CatalogResolver {
	if logger == nil {
		logger = debug.Logger()
	}
	return &CatalogResolver{db: db, dialect: dialect, logger: logger}
}

// ResolveFields implements FieldResolver.
func (r *CatalogResolver) ResolveFields(ctx context.Context, table string, columns []string) (domain.FieldList, error) {
	return resolveNames(table, columns, func(string) domain.ColumnType { return domain.TypeUnknown })
}

// ResolveField implements FieldResolver.
func (r *CatalogResolver) ResolveField(ctx context.Context, table, column string) (domain.Field, error) {
	field, err := resolveOne(table, column, domain.TypeUnknown)
	if err != nil || field.IsWildcard() {
		return field, err
	}

	cols, err := r.columns(ctx, table)
	if err != nil {
		r.logger.Debug("catalog lookup failed", "table", table, "error", err)
		return field, nil
	}
	for name, declared := range cols {
		if strings.EqualFold(name, column) {
			field.Type = domain.ClassifyDeclaredType(declared)
			break
		}
	}
	return field, nil
}

// TableExists reports whether the catalog lists any column for table.
func (r *CatalogResolver) TableExists(ctx context.Context, table string) (bool, error) {
	if err := domain.ValidateIdentifier(table); err != nil {
		return false, err
	}
	cols, err := r.columns(ctx, table)
	if err != nil {
		return false, err
	}
	return len(cols) > 0, nil
}

// columns returns column name → declared type for table.
func (r *CatalogResolver) columns(ctx context.Context, table string) (map[string]string, error) {
	query, args := r.catalogQuery(table)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var name, declared string
		if err := rows.Scan(&name, &declared); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		cols[name] = declared
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}
	return cols, nil
}

func (r *CatalogResolver) catalogQuery(table string) (string, []interface{}) {
	schema, name := splitQualified(table)

	switch r.dialect {
	case domain.PostgreSQL:
		if schema != "" {
			q := "SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = ? AND table_name = ?"
			return sqlx.Rebind(sqlx.DOLLAR, q), []interface{}{schema, name}
		}
		q := "SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ?"
		return sqlx.Rebind(sqlx.DOLLAR, q), []interface{}{name}
	case domain.MySQL:
		if schema != "" {
			return "SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = ? AND table_name = ?",
				[]interface{}{schema, name}
		}
		return "SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ?",
			[]interface{}{name}
	default:
		if schema != "" {
			return "SELECT name, type FROM pragma_table_info(?, ?)", []interface{}{name, schema}
		}
		return "SELECT name, type FROM pragma_table_info(?)", []interface{}{name}
	}
}

func splitQualified(table string) (schema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}

// Ensure CatalogResolver implements FieldResolver interface.
var _ FieldResolver = (*CatalogResolver)(nil)
