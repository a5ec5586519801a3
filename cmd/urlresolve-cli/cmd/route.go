package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"urlresolver/internal/application/commands"
)

var routeCmd = &cobra.Command{
	Use:   "route <path>",
	Short: "Translate a legacy numeric-id route",
	Long: `Translate a legacy route such as /rd/assayrun/923 to its named form
using the route catalog. Unknown routes are printed unchanged.

Examples:
  urlresolve-cli route /rd/assayrun/923
  urlresolve-cli route '#/q/lists/12'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := loadService(ctx)
		if err != nil {
			return err
		}

		redirect, err := commands.NewResolveRouteCommand(svc.Routes, args[0]).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(redirect.String())
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <url>",
	Short: "Show how one server url is rewritten",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := loadService(ctx)
		if err != nil {
			return err
		}

		inspect := commands.NewInspectURLCommand(svc, args[0])
		inspect.Value, _ = cmd.Flags().GetString("value")
		inspect.DisplayValue, _ = cmd.Flags().GetString("display")
		res, err := inspect.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("controller  %s\n", res.Path.Controller)
		fmt.Printf("action      %s\n", res.Path.Action)
		fmt.Printf("container   %s\n", res.Path.ContainerPath)
		fmt.Printf("outcome     %s\n", res.Kind)
		fmt.Printf("url         %s\n", res.URL)
		if res.Redirect != "" {
			fmt.Printf("redirect    %s\n", res.Redirect)
		}
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <url>",
	Short: "Split a server url into controller, action and container",
	Long: `Split a server url into controller, action and container path.

Examples:
  urlresolve-cli parse /labkey/home/experiment-showData.view?rowId=1
  urlresolve-cli parse https://server/labkey/list/home/grid.view`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := commands.NewParsePathCommand(args[0], cfg.ContextPath).Execute()
		if err != nil {
			return err
		}
		fmt.Printf("controller  %s\n", p.Controller)
		fmt.Printf("action      %s\n", p.Action)
		fmt.Printf("container   %s\n", p.ContainerPath)
		return nil
	},
}

var hrefCmd = &cobra.Command{
	Use:   "href <segment...>",
	Short: "Build an application route",
	Long: `Build an application route from path segments. Segments are
percent-encoded; params and filters are appended as query pairs.

Examples:
  urlresolve-cli href samples "Blood Samples"
  urlresolve-cli href q lists Reagents --param view=all --filter Status~neq=closed`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, _ := cmd.Flags().GetStringSlice("param")
		filters, _ := cmd.Flags().GetStringSlice("filter")

		u, err := commands.NewBuildHrefCommand(args, params, filters).Execute()
		if err != nil {
			return err
		}
		fmt.Println("#" + u.String())
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("value", "", "cell value the url came with")
	inspectCmd.Flags().String("display", "", "cell display value the url came with")
	hrefCmd.Flags().StringSlice("param", nil, "query param as key=value (repeatable)")
	hrefCmd.Flags().StringSlice("filter", nil, "grid filter as column~op=value (repeatable)")

	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(hrefCmd)
}
