package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"urlresolver/internal/application/commands"
	"urlresolver/internal/application/resolver"
)

func newResolveCmd(kind commands.DocumentKind, use, short, long string) *cobra.Command {
	var (
		outDir      string
		showStats   bool
		concurrency int
	)

	c := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			resolveCmd := commands.NewResolveFilesCommand(svc.Engine, docs, kind, args)
			resolveCmd.OutDir = outDir
			resolveCmd.Concurrency = concurrency
			results, err := resolveCmd.Execute(ctx)
			if err != nil {
				return err
			}

			var total resolver.Stats
			for _, r := range results {
				total.Add(r.Stats)
				if r.OutPath != "" {
					fmt.Fprintf(os.Stderr, "%s -> %s\n", r.Path, r.OutPath)
					continue
				}
				data, err := json.MarshalIndent(r.Document, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			}

			if showStats {
				fmt.Fprintf(os.Stderr, "%d files, %d urls: %d rewritten, %d suppressed, %d unmapped, %d failed\n",
					len(results), total.Cells, total.Rewritten, total.Suppressed, total.Unmapped, total.Failed)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&outDir, "out", "o", "", "write resolved documents to this directory instead of stdout")
	c.Flags().BoolVar(&showStats, "stats", false, "print url counts to stderr")
	c.Flags().IntVarP(&concurrency, "jobs", "j", commands.DefaultConcurrency, "files resolved in parallel")
	return c
}

func init() {
	rootCmd.AddCommand(newResolveCmd(commands.DocumentSelectRows,
		"rows <file...>",
		"Resolve urls in selectRows responses",
		`Rewrite every cell url in one or more selectRows response files.

Examples:
  urlresolve-cli rows export.json
  urlresolve-cli rows a.json b.json --out resolved --stats`,
	))
	rootCmd.AddCommand(newResolveCmd(commands.DocumentSearch,
		"search <file...>",
		"Resolve urls in search responses",
		`Rewrite every hit url in one or more search response files.

Examples:
  urlresolve-cli search hits.json --stats`,
	))
}
