package executor

import (
	"strings"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// ToRow copies one scanned record into a Row.
//
// With an explicit field list exactly those fields are copied, in field-list
// order, even if the record carries more columns; a field the record lacks is
// set to nil. With the wildcard list every column of the record is copied in
// record order.
func ToRow(columns []string, values []interface{}, fields domain.FieldList) *domain.Row {
	row := domain.NewRow()

	if fields.IsWildcard() {
		for i, col := range columns {
			row.Set(col, domain.NormalizeValue(values[i]))
		}
		return row
	}

	for _, f := range fields.Fields {
		idx := columnIndex(columns, f.Name)
		if idx < 0 {
			row.Set(f.Name, nil)
			continue
		}
		row.Set(f.Name, domain.NormalizeValue(values[idx]))
	}
	return row
}

// columnIndex finds name in columns, falling back to a case-insensitive match.
// Engines label a qualified column "t.col" as plain "col", so a qualified name
// that matches nothing is retried without its qualifier.
func columnIndex(columns []string, name string) int {
	for i, col := range columns {
		if col == name {
			return i
		}
	}
	for i, col := range columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return columnIndex(columns, name[i+1:])
	}
	return -1
}
