// Package commands implements CLI commands.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dynquery/internal/config"
	"github.com/satishbabariya/dynquery/internal/ui"
	"github.com/satishbabariya/dynquery/internal/utils/container"
)

// app carries global flags and the container shared by subcommands.
type app struct {
	configPath string
	provider   string
	url        string
	output     string
	debug      bool

	format    ui.Format
	container *container.Container
}

// Execute builds the command tree and runs it with args.
func Execute(ctx context.Context, args []string) error {
	a := &app{}
	root := a.rootCommand()
	root.SetArgs(args)
	defer a.close(ctx)

	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dynquery",
		Short: "Run dynamic queries against SQL databases",
		Long: `dynquery builds SELECT, INSERT, UPDATE, DELETE and aggregate statements
from table and column names given at runtime and runs them against
PostgreSQL, MySQL or SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Out, ui.Err = cmd.OutOrStdout(), cmd.ErrOrStderr()
			if cmd.Annotations["offline"] == "true" {
				return nil
			}
			return a.setup(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default .dynquery.yaml in . or $HOME)")
	flags.StringVar(&a.provider, "provider", "", "Database provider: postgresql, mysql or sqlite")
	flags.StringVar(&a.url, "url", "", "Database connection URL")
	flags.StringVarP(&a.output, "output", "o", "table", "Output format: table, json, yaml or markdown")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(a.newSelectCommand())
	cmd.AddCommand(a.newInsertCommand())
	cmd.AddCommand(a.newUpdateCommand())
	cmd.AddCommand(a.newDeleteCommand())
	cmd.AddCommand(a.newAggregateCommand())
	cmd.AddCommand(a.newCountCommand())
	cmd.AddCommand(a.newExistsCommand())
	cmd.AddCommand(a.newInfoCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// setup loads configuration, applies flag overrides and connects.
func (a *app) setup(ctx context.Context) error {
	format, err := ui.ParseFormat(a.output)
	if err != nil {
		return err
	}
	a.format = format

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.provider != "" {
		cfg.Database.Provider = a.provider
	}
	if a.url != "" {
		cfg.Database.URL = a.url
	}
	if a.debug {
		cfg.Log.Debug = true
	}

	a.container, err = container.NewContainer(ctx, cfg)
	return err
}

func (a *app) close(ctx context.Context) {
	if a.container == nil {
		return
	}
	if err := a.container.Close(ctx); err != nil {
		ui.PrintError("%v", err)
	}
	a.container = nil
}
