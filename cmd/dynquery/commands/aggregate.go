package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dynquery/internal/ui"
	"github.com/satishbabariya/dynquery/pkg/client"
)

func (a *app) newAggregateCommand() *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "aggregate TABLE FUNCTION [COLUMN]",
		Short: "Compute COUNT, SUM, AVG, MIN or MAX",
		Long: `Compute an aggregate over the rows matching --where. COLUMN defaults to *,
which only COUNT accepts.`,
		Example: `  dynquery aggregate Event sum price --where category=VIP`,
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := parseFilters(where)
			if err != nil {
				return err
			}
			column := "*"
			if len(args) == 3 {
				column = args[2]
			}
			fn := client.AggregateFunc(args[1])

			value, err := a.container.Store().Aggregate(cmd.Context(), args[0], column, fn, filters)
			if err != nil {
				return err
			}
			label := fmt.Sprintf("%s(%s)", strings.ToUpper(args[1]), column)
			return ui.RenderValue(cmd.OutOrStdout(), a.format, label, value)
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Equality condition column=value; all must match")

	return cmd
}

func (a *app) newCountCommand() *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "count TABLE",
		Short: "Count matching rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := parseFilters(where)
			if err != nil {
				return err
			}
			value, err := a.container.Store().Aggregate(cmd.Context(), args[0], "*", client.Count, filters)
			if err != nil {
				return err
			}
			return ui.RenderValue(cmd.OutOrStdout(), a.format, "count", value)
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Equality condition column=value; all must match")

	return cmd
}
