package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/dynquery/pkg/client"
)

// parseLiteral turns a command-line value into a typed value. Quoted values
// are always strings, so '42' stays text.
func parseLiteral(s string) interface{} {
	if len(s) >= 2 {
		if q := s[0]; (q == '\'' || q == '"') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	switch strings.ToLower(s) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// parseAssignment splits "column=value".
func parseAssignment(s string) (string, interface{}, error) {
	column, value, ok := strings.Cut(s, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return "", nil, fmt.Errorf("expected column=value, got %q", s)
	}
	return column, parseLiteral(strings.TrimSpace(value)), nil
}

// parseRow builds a row from assignments, keeping their order.
func parseRow(assignments []string) (*client.Row, error) {
	row := client.NewRow()
	for _, a := range assignments {
		column, value, err := parseAssignment(a)
		if err != nil {
			return nil, err
		}
		row.Set(column, value)
	}
	return row, nil
}

// parseFilters builds an equality map from assignments. A repeated column
// keeps its last value.
func parseFilters(assignments []string) (client.FilterMap, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	filters := make(client.FilterMap, len(assignments))
	for _, a := range assignments {
		column, value, err := parseAssignment(a)
		if err != nil {
			return nil, err
		}
		filters[column] = value
	}
	return filters, nil
}

// filterFlags are the condition flags shared by select, update and delete.
type filterFlags struct {
	where  []string
	or     []string
	filter string
}

// condition returns (AND of --where) AND (OR of --or) AND --filter, or nil
// when no flag was given.
func (f filterFlags) condition() (*client.Condition, error) {
	and, err := parseFilters(f.where)
	if err != nil {
		return nil, err
	}
	or, err := parseFilters(f.or)
	if err != nil {
		return nil, err
	}
	expr, err := client.ParseFilter(f.filter)
	if err != nil {
		return nil, err
	}
	return client.And(client.Combine(and, or), expr), nil
}
