package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"urlresolver/internal/application/commands"
	"urlresolver/internal/domain"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the route catalog",
	Long: `The route catalog maps the numeric ids of assays, assay runs, lists
and samples to the names their routes use.`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a catalog export (JSON, JSONC or YAML)",
	Long: `Import a catalog export into the catalog database in one transaction.

Examples:
  urlresolve-cli catalog import catalog.json
  urlresolve-cli catalog import catalog.yaml --replace`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		importCmd := commands.NewImportCatalogCommand(store, docs, args[0])
		importCmd.Replace, _ = cmd.Flags().GetBool("replace")
		stats, err := importCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %s: %d added, %d replaced, %d skipped in %s\n",
			args[0], stats.Added, stats.Replaced, stats.Skipped, stats.Duration.Round(time.Millisecond))
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List catalog entries",
	Long: `List catalog entries, optionally of one kind (assay, assayrun, list,
sample) and fuzzy-matched against --query.

Examples:
  urlresolve-cli catalog list
  urlresolve-cli catalog list lists --query reag`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		kind := ""
		if len(args) == 1 {
			kind = args[0]
		}
		query, _ := cmd.Flags().GetString("query")

		matches, err := commands.NewListCatalogCommand(store, kind, query).Execute(ctx)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No entries")
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%-8s %6d  %s  %s\n", m.Kind, m.ID, m.Name, m.Parent)
		}
		return nil
	},
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry counts and the last import",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		counts, err := store.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("database  %s\n", store.Path())
		for _, k := range domain.RouteKinds {
			fmt.Printf("%-9s %d\n", k, counts[k])
		}

		last, err := store.LastImport(ctx)
		if err != nil {
			return err
		}
		if last != nil {
			fmt.Printf("last import %s: %d added, %d replaced, %d skipped\n", last.BatchID, last.Added, last.Replaced, last.Skipped)
		}
		return nil
	},
}

func init() {
	catalogImportCmd.Flags().Bool("replace", false, "drop existing entries of every kind present in the file first")
	catalogListCmd.Flags().StringP("query", "q", "", "fuzzy match on name, parent or id")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	rootCmd.AddCommand(catalogCmd)
}
