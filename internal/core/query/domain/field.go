package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Wildcard is the column name that selects every column.
const Wildcard = "*"

// ColumnType is the declared type category of a column.
type ColumnType string

const (
	// TypeUnknown is used when no catalog information is available.
	TypeUnknown ColumnType = "unknown"
	// TypeNumeric covers integer, real and decimal columns.
	TypeNumeric ColumnType = "numeric"
	// TypeText covers character columns.
	TypeText ColumnType = "text"
	// TypeBoolean covers boolean columns.
	TypeBoolean ColumnType = "boolean"
	// TypeTime covers date and timestamp columns.
	TypeTime ColumnType = "time"
)

// Field is a resolved column handle.
type Field struct {
	Table string
	Name  string
	Type  ColumnType
}

// IsWildcard reports whether the field stands for all columns.
func (f Field) IsWildcard() bool { return f.Name == Wildcard }

// IsNumeric reports whether the declared type is numeric.
func (f Field) IsNumeric() bool { return f.Type == TypeNumeric }

// FieldList is an ordered list of resolved columns, or the single-element
// wildcard list.
type FieldList struct {
	Fields []Field
}

// WildcardFields returns the field list meaning "all columns".
func WildcardFields(table string) FieldList {
	return FieldList{Fields: []Field{{Table: table, Name: Wildcard, Type: TypeUnknown}}}
}

// IsWildcard reports whether the list is the wildcard sentinel.
func (l FieldList) IsWildcard() bool {
	return len(l.Fields) == 0 || (len(l.Fields) == 1 && l.Fields[0].IsWildcard())
}

// Names returns the column names in order.
func (l FieldList) Names() []string {
	names := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		names[i] = f.Name
	}
	return names
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// ValidateIdentifier accepts plain identifiers and schema-qualified names
// ("schema.table"). Expressions such as DATE(col) are rejected.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIdentifier)
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	for _, p := range parts {
		if !identifierPattern.MatchString(p) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return nil
}

// ClassifyDeclaredType maps an engine type name to a ColumnType using
// SQLite-style affinity rules, which also cover PostgreSQL and MySQL names.
func ClassifyDeclaredType(declared string) ColumnType {
	t := strings.ToUpper(strings.TrimSpace(declared))
	switch {
	case t == "":
		return TypeUnknown
	case strings.Contains(t, "BOOL"), t == "BIT":
		return TypeBoolean
	// Names that contain INT without being numbers.
	case strings.Contains(t, "INTERVAL"):
		return TypeTime
	case strings.Contains(t, "POINT"),
		strings.Contains(t, "RANGE"),
		strings.HasSuffix(t, "[]"),
		strings.HasPrefix(t, "_"):
		return TypeUnknown
	case strings.Contains(t, "INT"),
		strings.Contains(t, "REAL"),
		strings.Contains(t, "FLOA"),
		strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "DEC"),
		strings.Contains(t, "MONEY"):
		return TypeNumeric
	case strings.Contains(t, "DATE"), strings.Contains(t, "TIME"):
		return TypeTime
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return TypeText
	default:
		return TypeUnknown
	}
}

func sortStrings(s []string) { sort.Strings(s) }
