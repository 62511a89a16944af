package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dynquery/pkg/client"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"10.5", 10.5},
		{"true", true},
		{"FALSE", false},
		{"null", nil},
		{"VIP", "VIP"},
		{"'42'", "42"},
		{`"The Finals"`, "The Finals"},
		{"", ""},
		{"'", "'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLiteral(tt.in), tt.in)
	}
}

func TestParseAssignment(t *testing.T) {
	column, value, err := parseAssignment("price = 10")
	require.NoError(t, err)
	assert.Equal(t, "price", column)
	assert.Equal(t, int64(10), value)

	column, value, err = parseAssignment("note=a=b")
	require.NoError(t, err)
	assert.Equal(t, "note", column)
	assert.Equal(t, "a=b", value)

	for _, bad := range []string{"price", "=10", ""} {
		_, _, err := parseAssignment(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseRow_KeepsOrder(t *testing.T) {
	row, err := parseRow([]string{"name=Arena", "capacity=400", "city='Oslo'"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "capacity", "city"}, row.Keys())
	assert.Equal(t, int64(400), row.Value("capacity"))
}

func TestFilterFlags_Condition(t *testing.T) {
	cond, err := filterFlags{}.condition()
	require.NoError(t, err)
	assert.Nil(t, cond)

	cond, err = filterFlags{
		where:  []string{"category=VIP"},
		or:     []string{"city=Oslo", "country=SE"},
		filter: "active = true",
	}.condition()
	require.NoError(t, err)

	row := client.NewRow().Set("category", "VIP").Set("city", "Lund").Set("country", "SE").Set("active", true)
	assert.True(t, cond.Matches(row))
	row.Set("active", false)
	assert.False(t, cond.Matches(row))

	_, err = filterFlags{filter: "a >"}.condition()
	assert.ErrorIs(t, err, client.ErrInvalidInput)

	_, err = filterFlags{where: []string{"oops"}}.condition()
	assert.Error(t, err)
}
