package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"urlresolver/internal/adapters/filesystem"
	"urlresolver/internal/adapters/sqlite"
	"urlresolver/internal/application"
	"urlresolver/internal/config"
	"urlresolver/internal/logging"
)

var (
	configDir   string
	contextPath string
	devMode     bool

	cfg    *config.Config
	logger *slog.Logger
	store  *sqlite.Store
	docs   *filesystem.Store
)

var rootCmd = &cobra.Command{
	Use:   "urlresolve-cli",
	Short: "Rewrite server urls in query and search responses to application routes",
	Long: `urlresolve-cli rewrites the urls found in selectRows and search
responses into client-side application routes, and translates legacy
numeric-id routes to their named form using a route catalog.

Settings come from config.yaml in the config directory and from
URLRESOLVER_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(configDir)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("context-path") {
			cfg.ContextPath = contextPath
		}
		if cmd.Flags().Changed("dev") {
			cfg.DevMode = devMode
		}

		logger, err = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}

		store = sqlite.NewStore()
		if err := store.Open(cfg.CatalogDB); err != nil {
			return err
		}
		docs = filesystem.NewStore("")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default $URLRESOLVER_CONFIG_DIR or XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&contextPath, "context-path", "", "server context path to strip (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "warn about urls no mapper handles")
}

// loadService builds the resolver service from the catalog store
func loadService(ctx context.Context) (*application.Service, error) {
	opts := cfg.ServiceOptions()
	opts.Logger = logger
	return application.LoadService(ctx, store, opts)
}
