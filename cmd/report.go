package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/digestmd"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
	"github.com/techdigest-vietnam/techdigest/internal/site"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Read reports from the digest API",
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports of a content type",
	Args:  cobra.NoArgs,
	RunE:  runReportList,
}

var reportLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the latest report of a content type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportShow(cmd, "")
	},
}

var reportGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print a report by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportShow(cmd, args[0])
	},
}

func init() {
	reportCmd.PersistentFlags().StringP("type", "t", string(digest.Reports), "content type, e.g. reports, reddit-reports, hackernews-reports")
	reportCmd.PersistentFlags().Bool("json", false, "output as JSON")

	reportListCmd.Flags().String("search", "", "filter by text")
	reportListCmd.Flags().Int("limit", digest.DefaultLimit, "maximum number of reports")
	reportListCmd.Flags().Int("skip", 0, "number of reports to skip")
	reportListCmd.Flags().String("date-from", "", "earliest upload date (YYYY-MM-DD)")
	reportListCmd.Flags().String("date-to", "", "latest upload date (YYYY-MM-DD)")

	for _, c := range []*cobra.Command{reportLatestCmd, reportGetCmd} {
		c.Flags().Bool("toc", false, "print only the title and table of contents")
	}

	reportCmd.AddCommand(reportListCmd, reportLatestCmd, reportGetCmd)
	rootCmd.AddCommand(reportCmd)
}

func contentTypeFlag(cmd *cobra.Command) (digest.ContentType, error) {
	raw, _ := cmd.Flags().GetString("type")
	return digest.ParseContentType(raw)
}

func runReportList(cmd *cobra.Command, args []string) error {
	ct, err := contentTypeFlag(cmd)
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")
	skip, _ := cmd.Flags().GetInt("skip")
	dateFrom, _ := cmd.Flags().GetString("date-from")
	dateTo, _ := cmd.Flags().GetString("date-to")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	params := digest.ListParams{
		Skip:     skip,
		Limit:    limit,
		Search:   search,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	}
	res, err := a.reports.List(cmd.Context(), ct, params)
	if err != nil {
		return fmt.Errorf("listing %s: %w", ct, err)
	}

	if jsonOutput {
		return printJSON(res)
	}
	if len(res.Reports) == 0 {
		fmt.Println("No reports found.")
		return nil
	}

	fmt.Printf("%s: %d report(s)\n\n", ct.Title(), res.Total)
	for _, r := range res.Reports {
		title := r.Filename
		if title == "" {
			title = ct.Title() + " #" + r.ID.String()
		}
		fmt.Printf("  %-8s %-20s %s\n", r.ID, site.FormatDate(r.UploadDate), title)
	}
	if res.HasMore() {
		next := digest.LoadMore(params, skip+len(res.Reports))
		fmt.Printf("\nMore available: --skip %d\n", next.Skip)
	}
	return nil
}

func runReportShow(cmd *cobra.Command, id string) error {
	ct, err := contentTypeFlag(cmd)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	tocOnly, _ := cmd.Flags().GetBool("toc")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var r *digest.Report
	if id == "" {
		r, err = a.reports.Latest(cmd.Context(), ct)
	} else {
		r, err = a.reports.ByID(cmd.Context(), ct, id)
	}
	if err != nil {
		return fmt.Errorf("loading %s report: %w", ct, err)
	}

	switch {
	case jsonOutput:
		return printJSON(r)
	case tocOnly:
		return digestmd.WriteOutline(os.Stdout, mdproc.Process(r.Content))
	}

	fmt.Printf("%s #%s  %s\n\n", ct.Title(), r.ID, site.FormatDate(r.UploadDate))
	fmt.Println(r.Content)
	if ct == digest.RedditReports {
		if rep, err := feeds.ParseReddit(r.Content); err == nil {
			fmt.Println()
			return digestmd.WriteRedditAnalytics(os.Stdout, feeds.Analytics(rep.SubredditReports))
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
