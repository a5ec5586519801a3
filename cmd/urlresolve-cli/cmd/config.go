package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"urlresolver/internal/adapters/editor"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit resolver settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "file:          %s\n", cfg.Path)
		fmt.Fprintf(out, "context_path:  %s\n", cfg.ContextPath)
		fmt.Fprintf(out, "dev_mode:      %t\n", cfg.DevMode)
		fmt.Fprintf(out, "catalog_db:    %s\n", cfg.CatalogDB)
		fmt.Fprintf(out, "catalog_file:  %s\n", cfg.CatalogFile)
		fmt.Fprintf(out, "log_level:     %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format:    %s\n", cfg.LogFormat)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config.yaml in $EDITOR",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return editor.NewOpener().OpenFile(cfg.Path)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}
