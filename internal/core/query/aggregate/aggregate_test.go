package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dynquery/internal/core/query/aggregate"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

func TestApply(t *testing.T) {
	price := domain.Field{Table: "Ticket", Name: "price", Type: domain.TypeNumeric}
	label := domain.Field{Table: "Ticket", Name: "label", Type: domain.TypeText}
	star := domain.Field{Table: "Ticket", Name: "*"}

	tests := []struct {
		name         string
		dialect      domain.SQLDialect
		fn           domain.AggregateFunc
		field        domain.Field
		wantSQL      string
		wantFallback bool
	}{
		{"count column", domain.SQLite, domain.Count, label, `COUNT("label")`, false},
		{"count star", domain.PostgreSQL, domain.Count, star, `COUNT(*)`, false},
		{"sum numeric", domain.SQLite, domain.Sum, price, `SUM("price")`, false},
		{"avg numeric mysql", domain.MySQL, domain.Avg, price, "AVG(`price`)", false},
		{"sum text sqlite", domain.SQLite, domain.Sum, label, `SUM(CAST("label" AS REAL))`, true},
		{"avg text postgres", domain.PostgreSQL, domain.Avg, label, `AVG(CAST("label" AS NUMERIC))`, true},
		{"sum text mysql", domain.MySQL, domain.Sum, label, "SUM(CAST(`label` AS DECIMAL(65,30)))", true},
		{"max text", domain.SQLite, domain.Max, label, `MAX("label")`, false},
		{"min numeric", domain.PostgreSQL, domain.Min, price, `MIN("price")`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := aggregate.Apply(tt.dialect, tt.fn, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, expr.SQL)
			assert.Equal(t, tt.wantFallback, expr.Fallback)
			assert.Equal(t, tt.fn, expr.Function)
		})
	}
}

func TestApply_UnknownTypeFallsBack(t *testing.T) {
	expr, err := aggregate.Apply(domain.SQLite, domain.Sum, domain.Field{Name: "price", Type: domain.TypeUnknown})
	require.NoError(t, err)
	assert.True(t, expr.Fallback)
}

func TestApply_Errors(t *testing.T) {
	star := domain.Field{Name: "*"}

	_, err := aggregate.Apply(domain.SQLite, domain.Sum, star)
	assert.ErrorIs(t, err, domain.ErrUnknownAggregate)

	_, err = aggregate.Apply(domain.SQLite, domain.Max, star)
	assert.ErrorIs(t, err, domain.ErrUnknownAggregate)

	_, err = aggregate.Apply(domain.SQLite, domain.AggregateFunc("MEDIAN"), domain.Field{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrUnknownAggregate)
}
