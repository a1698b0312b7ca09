package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/techdigest-vietnam/techdigest/internal/config"
	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
	"github.com/techdigest-vietnam/techdigest/internal/progress"
	"github.com/techdigest-vietnam/techdigest/internal/server"
	"github.com/techdigest-vietnam/techdigest/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a static copy of the site",
	Long: `Renders the home page, every latest and archive page and the detail pages
of the newest reports into a directory of static HTML files. The result can
be previewed locally with --serve or published on any static host.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("out", "o", "site", "output directory")
	exportCmd.Flags().String("include", "", "comma-separated route patterns to export (default all)")
	exportCmd.Flags().String("exclude", "", "comma-separated route patterns to skip")
	exportCmd.Flags().Int("per-type", 20, "detail pages to export per content type")
	exportCmd.Flags().Bool("serve", false, "preview the exported site after writing it")
	exportCmd.Flags().Int("port", 8080, "preview port")
	exportCmd.Flags().Bool("open", false, "open the preview in a browser")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	include, _ := cmd.Flags().GetString("include")
	exclude, _ := cmd.Flags().GetString("exclude")
	perType, _ := cmd.Flags().GetInt("per-type")
	serve, _ := cmd.Flags().GetBool("serve")
	port, _ := cmd.Flags().GetInt("port")
	open, _ := cmd.Flags().GetBool("open")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg
	ctx := cmd.Context()

	st, err := site.New(site.Options{
		Name:     cfg.SiteName,
		BasePath: cfg.BasePath,
		Renderer: mdproc.NewRenderer(mdproc.Options{}),
	})
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}
	h := server.New(server.Config{
		BasePath:       cfg.BasePath,
		RequestTimeout: cfg.Server.RequestTimeout,
		PageSize:       cfg.PageSize,
	}, server.Deps{
		Site:    st,
		Reports: a.reports,
		Feeds:   a.feeds,
		Logger:  a.logger,
	}).Handler()

	routes, err := site.DiscoverRoutes(ctx, a.reports, perType, a.logger)
	if err != nil {
		return fmt.Errorf("discovering routes: %w", err)
	}
	routes, err = site.SelectRoutes(routes, config.RouteList(include), config.RouteList(exclude))
	if err != nil {
		return err
	}
	if len(routes) == 0 {
		return fmt.Errorf("no routes left to export after --include/--exclude")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	res, err := st.Export(ctx, h, routes, outDir, progress.NewReporter("Exporting pages"))
	if err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}

	fmt.Printf("Wrote %d page(s) to %s\n", len(res.Written), outDir)
	if len(res.Failed) > 0 {
		failed := make([]string, 0, len(res.Failed))
		for route := range res.Failed {
			failed = append(failed, route)
		}
		sort.Strings(failed)
		fmt.Printf("%d page(s) failed:\n", len(failed))
		for _, route := range failed {
			fmt.Printf("  %s (HTTP %d)\n", route, res.Failed[route])
		}
	}

	if serve {
		return site.Preview(outDir, cfg.BasePath, port, open)
	}
	return nil
}
