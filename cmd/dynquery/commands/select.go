package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dynquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/dynquery/internal/core/query/domain"
	"github.com/satishbabariya/dynquery/internal/ui"
	"github.com/satishbabariya/dynquery/internal/watch"
	"github.com/satishbabariya/dynquery/pkg/client"
)

func (a *app) newSelectCommand() *cobra.Command {
	var (
		columns []string
		filters filterFlags
		sort    string
		desc    bool
		limit   int
		offset  int
		watchDB bool
	)

	cmd := &cobra.Command{
		Use:   "select TABLE",
		Short: "Read rows from a table",
		Long: `Read rows from a table. Conditions from --where (all must match), --or
(any must match) and --filter are combined with AND.`,
		Example: `  dynquery select Event --where category=VIP --sort event_date --desc --limit 10
  dynquery select Event --filter "category = 'VIP' AND (city = 'Oslo' OR city = 'Bergen')"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			where, err := filters.condition()
			if err != nil {
				return err
			}

			req := client.FindRequest{Columns: columns, Where: where}
			switch {
			case sort != "" && desc:
				req.Sort = client.SortDesc(sort)
			case sort != "":
				req.Sort = client.SortAsc(sort)
			}
			if cmd.Flags().Changed("limit") {
				req.Limit = client.Int(limit)
			}
			if cmd.Flags().Changed("offset") {
				req.Offset = client.Int(offset)
			}

			run := func(ctx context.Context) error {
				rows, err := a.container.Store().Find(ctx, args[0], req)
				if err != nil {
					return err
				}
				return ui.RenderRows(cmd.OutOrStdout(), a.format, rows)
			}

			if !watchDB {
				return run(cmd.Context())
			}
			return a.watch(cmd.Context(), run)
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to return (default all)")
	cmd.Flags().StringArrayVarP(&filters.where, "where", "w", nil, "Equality condition column=value; all must match")
	cmd.Flags().StringArrayVar(&filters.or, "or", nil, "Equality condition column=value; any must match")
	cmd.Flags().StringVarP(&filters.filter, "filter", "f", "", "Filter expression")
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "Column to sort on")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum rows to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	cmd.Flags().BoolVar(&watchDB, "watch", false, "Re-run when the SQLite database file changes")

	return cmd
}

// watch re-runs fn whenever the configured SQLite file changes, until ctx is
// cancelled.
func (a *app) watch(ctx context.Context, fn func(ctx context.Context) error) error {
	cfg := a.container.Config()
	if a.container.Store().Dialect() != domain.SQLite {
		return fmt.Errorf("--watch needs a sqlite database, not %s", cfg.Database.Provider)
	}
	path, ok := sqlite.FilePath(cfg.Database.URL)
	if !ok {
		return fmt.Errorf("--watch needs a file-backed sqlite database")
	}

	w, err := watch.New(path, watch.DefaultDelay)
	if err != nil {
		return err
	}
	defer w.Close()

	ui.PrintInfo("watching %s, press Ctrl+C to stop", path)
	return w.Run(ctx, func(ctx context.Context) error {
		fmt.Fprintln(ui.Out, ui.SecondaryStyle.Render(time.Now().Format(time.TimeOnly)))
		return fn(ctx)
	})
}
