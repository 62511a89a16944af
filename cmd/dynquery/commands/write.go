package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/dynquery/internal/ui"
)

// confirm asks a yes/no question on the terminal.
var confirm = func(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok)
	return ok, err
}

func (a *app) newInsertCommand() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:     "insert TABLE",
		Short:   "Insert one row",
		Example: `  dynquery insert Event --set event_name="The Finals" --set price=10.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseRow(set)
			if err != nil {
				return err
			}
			n, err := a.container.Store().Insert(cmd.Context(), args[0], row)
			if err != nil {
				return err
			}
			ui.PrintSuccess("inserted %d row(s) into %s", n, args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Column value column=value (repeatable)")
	cmd.MarkFlagRequired("set")

	return cmd
}

func (a *app) newUpdateCommand() *cobra.Command {
	var (
		set     []string
		filters filterFlags
		all     bool
	)

	cmd := &cobra.Command{
		Use:     "update TABLE",
		Short:   "Update matching rows",
		Example: `  dynquery update Event --set price=12 --where event_id=3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseRow(set)
			if err != nil {
				return err
			}
			where, err := filters.condition()
			if err != nil {
				return err
			}
			if where == nil && !all {
				return fmt.Errorf("update needs --where, --or or --filter; pass --all to update every row")
			}

			store := a.container.Store()
			var n int64
			if where == nil {
				n, err = store.UpdateAll(cmd.Context(), args[0], values)
			} else {
				n, err = store.Update(cmd.Context(), args[0], values, where)
			}
			if err != nil {
				return err
			}
			ui.PrintSuccess("updated %d row(s) in %s", n, args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "New value column=value (repeatable)")
	cmd.Flags().StringArrayVarP(&filters.where, "where", "w", nil, "Equality condition column=value; all must match")
	cmd.Flags().StringArrayVar(&filters.or, "or", nil, "Equality condition column=value; any must match")
	cmd.Flags().StringVarP(&filters.filter, "filter", "f", "", "Filter expression")
	cmd.Flags().BoolVar(&all, "all", false, "Allow updating every row")

	return cmd
}

func (a *app) newDeleteCommand() *cobra.Command {
	var (
		filters filterFlags
		yes     bool
	)

	cmd := &cobra.Command{
		Use:     "delete TABLE",
		Short:   "Delete matching rows",
		Example: `  dynquery delete Event --where event_id=3 --yes`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			where, err := filters.condition()
			if err != nil {
				return err
			}

			// Without a condition the store refuses the delete, so there is
			// nothing to confirm.
			if !yes && where != nil {
				ok, err := confirm(fmt.Sprintf("Delete rows from %s where %s?", args[0], where))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintWarning("aborted")
					return nil
				}
			}

			n, err := a.container.Store().Delete(cmd.Context(), args[0], where)
			if err != nil {
				return err
			}
			ui.PrintSuccess("deleted %d row(s) from %s", n, args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&filters.where, "where", "w", nil, "Equality condition column=value; all must match")
	cmd.Flags().StringArrayVar(&filters.or, "or", nil, "Equality condition column=value; any must match")
	cmd.Flags().StringVarP(&filters.filter, "filter", "f", "", "Filter expression")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
