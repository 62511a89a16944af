package domain

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// QuoteIdentifier quotes a validated identifier for the dialect. Qualified
// names are quoted part by part; the wildcard is left bare.
func (d SQLDialect) QuoteIdentifier(name string) string {
	if name == Wildcard {
		return name
	}
	q := `"`
	if d == MySQL {
		q = "`"
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = q + strings.ReplaceAll(p, q, q+q) + q
	}
	return strings.Join(parts, ".")
}

// BindType returns the sqlx placeholder style of the dialect.
func (d SQLDialect) BindType() int {
	if d == PostgreSQL {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

// Rebind converts ? placeholders into the dialect's style.
func (d SQLDialect) Rebind(query string) string {
	return sqlx.Rebind(d.BindType(), query)
}

// NumericCastType is the type used to coerce non-numeric columns in SUM/AVG.
func (d SQLDialect) NumericCastType() string {
	switch d {
	case PostgreSQL:
		return "NUMERIC"
	case MySQL:
		return "DECIMAL(65,30)"
	default:
		return "REAL"
	}
}

// UnboundedLimit is the LIMIT literal meaning "all remaining rows", used when
// an OFFSET is given without a LIMIT. Empty means the dialect accepts a bare
// OFFSET.
func (d SQLDialect) UnboundedLimit() string {
	switch d {
	case MySQL:
		return "18446744073709551615"
	case SQLite:
		return "-1"
	default:
		return ""
	}
}
