package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/dynquery/internal/config"
	"github.com/satishbabariya/dynquery/internal/ui"
)

func (a *app) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the connected server and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.container.Store().ServerInfo(cmd.Context())
			if err != nil {
				return err
			}
			cfg := a.container.Config()

			if a.format != ui.FormatTable {
				return ui.RenderValue(cmd.OutOrStdout(), a.format, "server", map[string]interface{}{
					"dialect":           string(info.Dialect),
					"version":           info.Version,
					"catalog_supported": info.CatalogSupported,
					"resolver":          cfg.Query.Resolver,
					"config_file":       cfg.File,
				})
			}

			configFile := cfg.File
			if configFile == "" {
				configFile = "(none)"
			}
			ui.PrintBox("dynquery",
				ui.Field("Dialect", info.Dialect),
				ui.Field("Server version", info.Version),
				ui.Field("Resolver", cfg.Query.Resolver),
				ui.Field("Config file", configFile),
			)
			if !info.CatalogSupported && cfg.Query.Resolver != config.ResolverName {
				ui.PrintWarning("server %s predates catalog support; set query.resolver to name", info.Version)
			}
			return nil
		},
	}
}

func (a *app) newExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists TABLE",
		Short: "Report whether a table exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := a.container.Store().TableExists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return ui.RenderValue(cmd.OutOrStdout(), a.format, args[0], exists)
		},
	}
}
